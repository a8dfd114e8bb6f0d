package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

//go:embed migrations
var migrations embed.FS

// Options describes how to reach the database.
type Options struct {
	Driver        string
	URL           string
	MaxOpenConns  int
	MaxRetries    int
	RetryInterval time.Duration
}

// Open connects to the database, retrying while it comes up.
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	if opts.Driver == "" {
		opts.Driver = DriverPostgres
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 2 * time.Second
	}

	var (
		conn *sqlx.DB
		err  error
	)
	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		conn, err = sqlx.ConnectContext(ctx, opts.Driver, opts.URL)
		if err == nil {
			break
		}

		log.Error().Err(err).
			Int("attempt", attempt).
			Str("driver", opts.Driver).
			Msgf("failed to connect to database, retrying in %s", opts.RetryInterval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.RetryInterval):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to database after %d attempts: %w", opts.MaxRetries, err)
	}

	if opts.Driver == DriverSQLite {
		// one connection keeps in-memory databases and the foreign key pragma
		// alive for the lifetime of the pool
		conn.SetMaxOpenConns(1)
		if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
			conn.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	} else if opts.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
	}

	log.Info().Str("driver", opts.Driver).Msg("connected to database")
	return conn, nil
}

// Migrate runs the embedded “*.up.sql” files for the connection's dialect in
// name order. Every statement is idempotent, so running it twice is safe.
func Migrate(ctx context.Context, conn *sqlx.DB) error {
	dir := path.Join("migrations", conn.DriverName())
	files, err := fs.Glob(migrations, path.Join(dir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to glob migrations: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations for driver %q", conn.DriverName())
	}
	sort.Strings(files)

	for _, file := range files {
		sqlBytes, err := migrations.ReadFile(file)
		if err != nil {
			return fmt.Errorf("could not read migration %q: %w", file, err)
		}
		if len(sqlBytes) == 0 {
			continue
		}
		if _, err := conn.ExecContext(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("error executing migration %q: %w", file, err)
		}
		log.Debug().Str("file", file).Msg("applied migration")
	}
	return nil
}
