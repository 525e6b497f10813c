package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmarkov/subledger/internal/models"
)

// ProductRepository is the read-only boundary to product reference data
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

// PromoRepository is the read-only boundary to promo reference data
type PromoRepository interface {
	FindByName(ctx context.Context, name string) (*models.Promo, error)
}

// UserRepository is the read-only boundary to identity records
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type productRepository struct {
	q Querier
}

// NewProductRepository creates a ProductRepository over the given querier.
func NewProductRepository(q Querier) ProductRepository {
	return &productRepository{q: q}
}

// FindByID retrieves a product by id.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT id, name, price_cents FROM products WHERE id = $1`

	var product models.Product
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.PriceCents,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return &product, nil
}

type promoRepository struct {
	q Querier
}

// NewPromoRepository creates a PromoRepository over the given querier.
func NewPromoRepository(q Querier) PromoRepository {
	return &promoRepository{q: q}
}

// FindByName retrieves a promo by its name.
func (r *promoRepository) FindByName(ctx context.Context, name string) (*models.Promo, error) {
	query := `SELECT name, product_id, discount_percent, expires_at FROM promos WHERE name = $1`

	var promo models.Promo
	err := r.q.QueryRowContext(ctx, query, name).Scan(
		&promo.Name,
		&promo.ProductID,
		&promo.DiscountPercent,
		&promo.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find promo: %w", err)
	}

	return &promo, nil
}

type userRepository struct {
	q Querier
}

// NewUserRepository creates a UserRepository over the given querier.
func NewUserRepository(q Querier) UserRepository {
	return &userRepository{q: q}
}

// FindByID retrieves a user by id.
func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, name, email, is_admin FROM users WHERE id = $1`

	var user models.User
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.IsAdmin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}
