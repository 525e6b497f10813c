package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmarkov/subledger/internal/models"
)

// SubscriptionRepository defines the interface for subscription data access
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	FindByOwnerAndProduct(ctx context.Context, ownerID, productID int64) (*models.Subscription, error)
	FindByOwner(ctx context.Context, ownerID int64) ([]*models.Subscription, error)
	FindAll(ctx context.Context) ([]*models.Subscription, error)
	Delete(ctx context.Context, ownerID, productID int64) error
}

type subscriptionRepository struct {
	q Querier
}

// NewSubscriptionRepository creates a SubscriptionRepository over the given
// querier.
func NewSubscriptionRepository(q Querier) SubscriptionRepository {
	return &subscriptionRepository{q: q}
}

// Create inserts a subscription. A unique constraint on (owner_id,
// product_id) enforces at most one active subscription per product.
func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (owner_id, product_id, price_cents, status, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.q.QueryRowContext(ctx, query,
		sub.OwnerID,
		sub.ProductID,
		sub.PriceCents,
		sub.Status,
		sub.ExpiresAt,
	).Scan(&sub.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateSubscription
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// FindByOwnerAndProduct retrieves the owner's subscription to a product.
func (r *subscriptionRepository) FindByOwnerAndProduct(ctx context.Context, ownerID, productID int64) (*models.Subscription, error) {
	query := `
		SELECT id, owner_id, product_id, price_cents, status, expires_at
		FROM subscriptions
		WHERE owner_id = $1 AND product_id = $2
	`

	var sub models.Subscription
	err := r.q.QueryRowContext(ctx, query, ownerID, productID).Scan(
		&sub.ID,
		&sub.OwnerID,
		&sub.ProductID,
		&sub.PriceCents,
		&sub.Status,
		&sub.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	return &sub, nil
}

// FindByOwner returns all of an owner's subscriptions.
func (r *subscriptionRepository) FindByOwner(ctx context.Context, ownerID int64) ([]*models.Subscription, error) {
	query := `
		SELECT id, owner_id, product_id, price_cents, status, expires_at
		FROM subscriptions
		WHERE owner_id = $1
		ORDER BY id
	`
	return r.scanMany(ctx, query, ownerID)
}

// FindAll returns every subscription. Privileged listings only.
func (r *subscriptionRepository) FindAll(ctx context.Context) ([]*models.Subscription, error) {
	query := `
		SELECT id, owner_id, product_id, price_cents, status, expires_at
		FROM subscriptions
		ORDER BY id
	`
	return r.scanMany(ctx, query)
}

// Delete removes the owner's subscription to a product.
func (r *subscriptionRepository) Delete(ctx context.Context, ownerID, productID int64) error {
	result, err := r.q.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE owner_id = $1 AND product_id = $2`,
		ownerID, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *subscriptionRepository) scanMany(ctx context.Context, query string, args ...any) ([]*models.Subscription, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // close error is not actionable after reads

	var subs []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		err := rows.Scan(
			&sub.ID,
			&sub.OwnerID,
			&sub.ProductID,
			&sub.PriceCents,
			&sub.Status,
			&sub.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		subs = append(subs, &sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}

	return subs, nil
}
