// Package db owns the Postgres connection pool backing the ledger.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tmarkov/subledger/internal/config"

	// Import postgres driver for registration with database/sql)
	_ "github.com/lib/pq"
)

// DB wraps the ledger connection pool
type DB struct {
	*sql.DB
	logger *slog.Logger
}

// Connect opens the ledger database and verifies it is reachable. The pool
// limits come from configuration; every repository in the module shares this
// one pool.
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to ledger database",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DBName,
	)

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logger.Error("failed to open ledger database", "error", err)
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to ping ledger database", "error", err)
		return nil, fmt.Errorf("failed to ping ledger database: %w", err)
	}

	logger.Info("ledger database connected",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
		"conn_max_lifetime", cfg.ConnMaxLifetime,
	)

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the ledger connection pool and logs the closure.
func (db *DB) Close() error {
	db.logger.Info("closing ledger database connection")
	return db.DB.Close()
}
