package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmarkov/subledger/internal/models"
)

// IdempotencyRepository stores processed request/response pairs keyed by
// idempotency key, path, and calling user.
type IdempotencyRepository interface {
	Get(ctx context.Context, key, requestPath string, userID int64) (*models.IdempotencyKey, error)
	Store(ctx context.Context, idemKey *models.IdempotencyKey) error
}

type idempotencyRepository struct {
	q Querier
}

// NewIdempotencyRepository creates an IdempotencyRepository over the given
// querier.
func NewIdempotencyRepository(q Querier) IdempotencyRepository {
	return &idempotencyRepository{q: q}
}

// Get retrieves a stored response for a key/path pair belonging to userID.
func (r *idempotencyRepository) Get(ctx context.Context, key, requestPath string, userID int64) (*models.IdempotencyKey, error) {
	query := `
		SELECT key, request_path, user_id, response_status, response_body, created_at
		FROM idempotency_keys
		WHERE key = $1 AND request_path = $2 AND user_id = $3
	`

	var idemKey models.IdempotencyKey
	err := r.q.QueryRowContext(ctx, query, key, requestPath, userID).Scan(
		&idemKey.Key,
		&idemKey.RequestPath,
		&idemKey.UserID,
		&idemKey.ResponseStatus,
		&idemKey.ResponseBody,
		&idemKey.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}

	return &idemKey, nil
}

// Store persists a response under its idempotency key. A concurrent duplicate
// insert loses silently; the first stored response wins.
func (r *idempotencyRepository) Store(ctx context.Context, idemKey *models.IdempotencyKey) error {
	query := `
		INSERT INTO idempotency_keys (key, request_path, user_id, response_status, response_body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key, request_path, user_id) DO NOTHING
	`

	_, err := r.q.ExecContext(ctx, query,
		idemKey.Key,
		idemKey.RequestPath,
		idemKey.UserID,
		idemKey.ResponseStatus,
		idemKey.ResponseBody,
		idemKey.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}

	return nil
}
