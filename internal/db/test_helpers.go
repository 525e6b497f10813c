package db

import (
	"database/sql"
	"io"
	"log/slog"
)

// NewTestDB wraps a raw connection as a ledger DB with a discarded logger.
// Only for tests that build the pool themselves.
func NewTestDB(sqlDB *sql.DB) *DB {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &DB{
		DB:     sqlDB,
		logger: logger,
	}
}
