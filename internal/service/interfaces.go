package service

import (
	"context"

	"github.com/tmarkov/subledger/internal/models"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Purchaser handles subscription purchases
type Purchaser interface {
	Purchase(ctx context.Context, ownerID, productID int64, promoName *string) (*PurchaseResult, error)
}

// Refunder handles the refund request/adjudication hand-off
type Refunder interface {
	Request(ctx context.Context, ownerID, transactionID int64) (*models.Transaction, error)
	ListPending(ctx context.Context) ([]*models.Transaction, error)
	Adjudicate(ctx context.Context, transactionID int64, approved bool) (*models.Transaction, error)
}

// Canceler handles subscription cancellations
type Canceler interface {
	Cancel(ctx context.Context, callerID, ownerID, productID int64) (*models.Transaction, error)
}

// Historian exposes ledger queries for the API surface
type Historian interface {
	History(ctx context.Context, callerID, ownerID int64) ([]*models.Transaction, error)
	Get(ctx context.Context, callerID, transactionID int64) (*models.Transaction, error)
	RefundEligible(ctx context.Context, ownerID int64) ([]*models.Transaction, error)
}

// SubscriptionLister exposes subscription queries for the API surface
type SubscriptionLister interface {
	List(ctx context.Context, callerID int64, ownerID *int64) ([]*models.Subscription, error)
}

// Ensure concrete types implement interfaces
var (
	_ Purchaser          = (*PurchaseService)(nil)
	_ Refunder           = (*RefundService)(nil)
	_ Canceler           = (*CancelService)(nil)
	_ Historian          = (*HistoryService)(nil)
	_ SubscriptionLister = (*SubscriptionQueryService)(nil)
)
