package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/Nixie-Tech-LLC/dqdash/internal/cache"
	"github.com/Nixie-Tech-LLC/dqdash/internal/config"
	"github.com/Nixie-Tech-LLC/dqdash/internal/db"
	"github.com/Nixie-Tech-LLC/dqdash/internal/holiday"
	"github.com/Nixie-Tech-LLC/dqdash/internal/notify"
	"github.com/Nixie-Tech-LLC/dqdash/internal/service"
)

const cachePrefix = "dqdash"

func openDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	conn, err := db.Open(ctx, db.Options{
		Driver:        cfg.DatabaseDriver,
		URL:           cfg.DatabaseURL,
		MaxOpenConns:  cfg.DatabaseMaxOpenConns,
		MaxRetries:    cfg.DatabaseConnectRetries,
		RetryInterval: cfg.DatabaseRetryInterval,
	})
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func provideDatabase(lc fx.Lifecycle, cfg *config.Config) (*sqlx.DB, error) {
	conn, err := openDatabase(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return conn.Close()
		},
	})
	return conn, nil
}

// provideCache selects the shared redis cache when configured, otherwise an
// in-process one.
func provideCache(lc fx.Lifecycle, cfg *config.Config) (cache.Cache, error) {
	if cfg.RedisAddress == "" {
		log.Info().Msg("using in-process report cache")
		return cache.NewMemory(), nil
	}

	client, err := cache.DialRedis(context.Background(), cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	log.Info().Str("address", cfg.RedisAddress).Msg("using redis report cache")
	return cache.NewRedis(client, cachePrefix), nil
}

func provideNotifier(lc fx.Lifecycle, cfg *config.Config) (notify.Notifier, error) {
	if cfg.MQTTBrokerURL == "" {
		log.Info().Msg("schedule change notifications disabled")
		return notify.Nop{}, nil
	}

	n, err := notify.Connect(cfg.MQTTBrokerURL, cfg.MQTTClientID)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			n.Close()
			return nil
		},
	})
	return n, nil
}

func provideCalendar(cfg *config.Config) (*holiday.Calendar, error) {
	return holiday.Load(cfg.BankHolidaysPath)
}

func provideSchedules(cfg *config.Config, store db.Store, cal *holiday.Calendar, c cache.Cache, n notify.Notifier) (*service.Schedules, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return service.NewSchedules(store, cal, c, n, service.Options{
		Location: loc,
		CacheTTL: cfg.ReportCacheTTL,
	}), nil
}
