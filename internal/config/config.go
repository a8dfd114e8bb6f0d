package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const Prefix = "dq"

// Config holds environment-based settings. Every field is read from
// DQ_<FIELD_NAME>, e.g. DatabaseURL from DQ_DATABASE_URL.
type Config struct {
	// Address is the HTTP listen address.
	Address string `split_words:"true" default:":8080"`

	// DevMode switches to pretty console logs and gin debug mode.
	DevMode bool `split_words:"true"`

	// DatabaseDriver is postgres or sqlite3.
	DatabaseDriver         string        `split_words:"true" default:"postgres"`
	DatabaseURL            string        `split_words:"true" required:"true"`
	DatabaseMaxOpenConns   int           `split_words:"true" default:"10"`
	DatabaseConnectRetries int           `split_words:"true" default:"10"`
	DatabaseRetryInterval  time.Duration `split_words:"true" default:"2s"`

	// RedisAddress enables the shared report cache. Empty keeps the cache in
	// process.
	RedisAddress   string        `split_words:"true"`
	RedisUsername  string        `split_words:"true"`
	RedisPassword  string        `split_words:"true"`
	ReportCacheTTL time.Duration `split_words:"true" default:"5m"`

	// MQTTBrokerURL enables schedule change notifications, e.g. tcp://mqtt:1883.
	MQTTBrokerURL string `envconfig:"MQTT_BROKER_URL"`
	MQTTClientID  string `envconfig:"MQTT_CLIENT_ID" default:"dqdash"`

	// BankHolidaysPath points at the YAML bank holiday table.
	BankHolidaysPath string `split_words:"true" default:"configs/bank_holidays.yaml"`

	// Timezone is the zone schedule hours are written in.
	Timezone string `split_words:"true" default:"Europe/London"`

	LogJSON bool   `envconfig:"LOG_JSON"`
	LogFile string `split_words:"true"`

	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
	AllowedOrigins  []string      `split_words:"true" default:"*"`
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		_ = envconfig.Usage(Prefix, &cfg)
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("failed to parse configuration: DQ_DATABASE_URL is empty")
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
