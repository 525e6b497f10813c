package models

import "time"

// SubscriptionStatus represents the lifecycle state of a subscription
type SubscriptionStatus string

// SubscriptionStatusActive is the only modeled state; subscriptions are
// deleted outright on cancellation rather than flipped to a canceled state.
const SubscriptionStatusActive SubscriptionStatus = "ACTIVE"

// Subscription is an active product subscription. Created only as a side
// effect of a successful purchase, deleted only by a cancellation.
type Subscription struct {
	ExpiresAt  time.Time          `db:"expires_at"`
	Status     SubscriptionStatus `db:"status"`
	ID         int64              `db:"id"`
	OwnerID    int64              `db:"owner_id"`
	ProductID  int64              `db:"product_id"`
	PriceCents int64              `db:"price_cents"`
}
