// Package repository provides data access layer implementations for the
// subledger API.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Querier is the subset of database/sql shared by *sql.DB, *sql.Tx and
// *db.DB. Repositories are constructed over it so the same implementation
// serves both pooled reads and transaction-scoped writes.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
