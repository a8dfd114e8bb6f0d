package db

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
)

var testDBSeq atomic.Int64

// NewTestStore opens a migrated store for tests. TEST_DATABASE_URL selects a
// Postgres database; without it every call gets a fresh in-memory SQLite
// database.
func NewTestStore(tb testing.TB) (Store, *sqlx.DB) {
	tb.Helper()

	opts := Options{
		Driver: DriverSQLite,
		URL:    fmt.Sprintf("file:dqtest%d?mode=memory&cache=shared&_foreign_keys=1", testDBSeq.Add(1)),
	}
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		opts = Options{Driver: DriverPostgres, URL: url}
	}

	ctx := context.Background()
	conn, err := Open(ctx, opts)
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	tb.Cleanup(func() { conn.Close() })

	if err := Migrate(ctx, conn); err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}
	return NewStore(conn), conn
}
