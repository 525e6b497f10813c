package models

import "time"

// Product is reference data consumed read-only by the purchase flow.
type Product struct {
	Name       string `db:"name"`
	ID         int64  `db:"id"`
	PriceCents int64  `db:"price_cents"`
}

// Promo is a named discount targeting a single product.
type Promo struct {
	ExpiresAt       time.Time `db:"expires_at"`
	Name            string    `db:"name"`
	ProductID       int64     `db:"product_id"`
	DiscountPercent int64     `db:"discount_percent"`
}

// User is the identity record behind a resolved request. Credential handling
// lives upstream; the core only needs the id, the privilege flag and the
// email address for notifications.
type User struct {
	Name    string `db:"name"`
	Email   string `db:"email"`
	ID      int64  `db:"id"`
	IsAdmin bool   `db:"is_admin"`
}
