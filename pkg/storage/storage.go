// Package storage opens the bun database handles used by the marketplace
// repositories and creates their schema.
package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Config captures the connection settings for a marketplace database.
type Config struct {
	// Driver selects the backing engine: "sqlite" or "postgres".
	Driver string
	// DSN is the connection string. For sqlite an empty DSN opens a shared
	// in-memory database.
	DSN string
	// MaxOpenConns bounds the pool. SQLite in-memory databases are forced to
	// a single connection regardless.
	MaxOpenConns int
}

// Open returns a bun handle for the configured database.
func Open(cfg Config) (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "sqlite", "sqlite3":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		if strings.Contains(dsn, ":memory:") {
			db.SetMaxOpenConns(1)
		} else if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		return db, nil
	case "postgres", "pg":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("storage: postgres requires a dsn")
		}
		sqlDB, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		db := bun.NewDB(sqlDB, pgdialect.New())
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
