package models

import (
	"time"
)

// SystemOwnerID is the reserved owner for ledger entries queued for deferred
// settlement. Rows carrying it never show up in owner-scoped queries; the real
// owner is kept in HiddenOwnerID until the reconciler settles the entry.
const SystemOwnerID int64 = 0

// TransactionAction represents the kind of event a ledger entry records
type TransactionAction string

const (
	ActionNewSubscription    TransactionAction = "NEW_SUBSCRIPTION"
	ActionCancelSubscription TransactionAction = "CANCEL_SUBSCRIPTION"
	ActionAdminCancel        TransactionAction = "ADMIN_CANCEL_SUBSCRIPTION"
	ActionRefundRequest      TransactionAction = "REFUND_REQUEST"
)

// TransactionStatus represents the outcome recorded on a ledger entry
type TransactionStatus string

const (
	StatusSuccess            TransactionStatus = "SUCCESS"
	StatusTimeout            TransactionStatus = "TIMEOUT"
	StatusInsufficientFunds  TransactionStatus = "INSUFFICIENT_FUNDS"
	StatusPending            TransactionStatus = "PENDING"
	StatusDeclined           TransactionStatus = "DECLINED"
	StatusAwaitingSettlement TransactionStatus = "AWAITING_SETTLEMENT"
)

// Transaction is one ledger entry. Entries are immutable once they reach a
// terminal status; the only permitted mutation is the refund_attempted guard,
// and queued entries are replaced (never updated) when they settle.
type Transaction struct {
	OccurredAt      time.Time         `db:"occurred_at"`
	PromoName       *string           `db:"promo_name"`
	RefundCents     *int64            `db:"refund_cents"`
	HiddenOwnerID   *int64            `db:"hidden_owner_id"`
	Action          TransactionAction `db:"action"`
	Status          TransactionStatus `db:"status"`
	ID              int64             `db:"id"`
	OwnerID         int64             `db:"owner_id"`
	ProductID       int64             `db:"product_id"`
	LedgerDelta     int64             `db:"ledger_delta_cents"`
	RefundAttempted bool              `db:"refund_attempted"`
}

// Queued reports whether the entry sits in the deferred-settlement queue.
// Queued entries are owned by the system sentinel and carry the masked owner
// in HiddenOwnerID.
func (t *Transaction) Queued() bool {
	return t.OwnerID == SystemOwnerID
}

// SettlementCents returns the amount the reconciler must move to settle a
// queued entry: the pending refund amount for refund requests, the ledger
// delta for everything else.
func (t *Transaction) SettlementCents() int64 {
	if t.Action == ActionRefundRequest && t.RefundCents != nil {
		return *t.RefundCents
	}
	return t.LedgerDelta
}

// NewQueuedRefund builds the masked AwaitingSettlement entry handed to the
// reconciler when a refund is approved. This is the only constructor that
// produces a sentinel-owned row, keeping the owner/hidden-owner pairing
// consistent.
func NewQueuedRefund(maskedFor, productID, refundCents int64, now time.Time) *Transaction {
	return &Transaction{
		OwnerID:       SystemOwnerID,
		HiddenOwnerID: &maskedFor,
		ProductID:     productID,
		Action:        ActionRefundRequest,
		Status:        StatusAwaitingSettlement,
		OccurredAt:    now,
		RefundCents:   &refundCents,
	}
}

// IdempotencyKey tracks processed requests to prevent duplicate transactions.
// Cached responses are scoped per user; the same key from a different caller
// is a fresh request, not a replay.
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	ResponseBody   string    `db:"response_body"`
	UserID         int64     `db:"user_id"`
	ResponseStatus int       `db:"response_status"`
}
