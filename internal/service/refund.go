package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tmarkov/subledger/internal/clock"
	"github.com/tmarkov/subledger/internal/db"
	"github.com/tmarkov/subledger/internal/models"
	"github.com/tmarkov/subledger/internal/repository"
)

// RefundService handles the three-state refund hand-off: a user requests a
// refund of a charge, an admin adjudicates it, and approved refunds are
// queued for the reconciler to settle.
type RefundService struct {
	db     *db.DB
	clock  clock.Clock
	window time.Duration
}

// NewRefundService creates a new RefundService. window is the eligibility
// period after a successful charge, inclusive at the boundary.
func NewRefundService(database *db.DB, clk clock.Clock, window time.Duration) *RefundService {
	return &RefundService{
		db:     database,
		clock:  clk,
		window: window,
	}
}

// Request files a refund request against one of the caller's charges. The
// eligibility read, the guard set and the new ledger entry happen in one
// database transaction with the target row locked, so two concurrent
// requests against the same charge cannot both succeed.
func (s *RefundService) Request(ctx context.Context, ownerID, transactionID int64) (*models.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to start transaction: %v", err),
		}
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	txnRepo := repository.NewTransactionRepository(tx)

	request, err := s.performRequest(ctx, txnRepo, ownerID, transactionID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to commit transaction: %v", err),
		}
	}

	return request, nil
}

// performRequest contains the core refund request business logic
func (s *RefundService) performRequest(
	ctx context.Context,
	txnRepo repository.TransactionRepository,
	ownerID, transactionID int64,
) (*models.Transaction, error) {
	target, err := txnRepo.FindByIDForUpdate(ctx, transactionID)
	if err != nil || target.OwnerID != ownerID {
		// Foreign transactions read as absent so ids of other users'
		// charges cannot be probed.
		return nil, &ServiceError{
			Code:    ErrCodeTransactionNotFound,
			Message: "transaction not found",
		}
	}

	now := s.clock.Now()
	if !s.refundable(target, now) {
		return nil, &ServiceError{
			Code:    ErrCodeRefundIneligible,
			Message: "transaction is not eligible for a refund",
		}
	}

	if err := txnRepo.MarkRefundAttempted(ctx, target.ID); err != nil {
		if errors.Is(err, models.ErrAlreadyAttempted) {
			return nil, &ServiceError{
				Code:    ErrCodeRefundIneligible,
				Message: "a refund was already requested for this transaction",
			}
		}
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to set refund guard: %v", err),
		}
	}

	refundCents := target.LedgerDelta
	request := &models.Transaction{
		OwnerID:     ownerID,
		ProductID:   target.ProductID,
		PromoName:   target.PromoName,
		Action:      models.ActionRefundRequest,
		Status:      models.StatusPending,
		OccurredAt:  now,
		RefundCents: &refundCents,
	}

	if err := txnRepo.Create(ctx, request); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to create refund request: %v", err),
		}
	}

	return request, nil
}

// refundable checks the eligibility rules for a refund request. The window
// cutoff is inclusive: a charge exactly window-old still qualifies.
func (s *RefundService) refundable(target *models.Transaction, now time.Time) bool {
	return target.Action == models.ActionNewSubscription &&
		target.Status == models.StatusSuccess &&
		target.LedgerDelta > 0 &&
		!target.RefundAttempted &&
		now.Sub(target.OccurredAt) <= s.window
}

// ListPending returns refund requests awaiting adjudication.
func (s *RefundService) ListPending(ctx context.Context) ([]*models.Transaction, error) {
	txnRepo := repository.NewTransactionRepository(s.db)
	pending, err := txnRepo.FindPendingRefunds(ctx)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to list pending refunds: %v", err),
		}
	}
	return pending, nil
}

// Adjudicate resolves a pending refund request. A declined request becomes a
// terminal ledger entry attributed to the requester; an approved one is
// replaced by a masked entry in the deferred-settlement queue.
func (s *RefundService) Adjudicate(ctx context.Context, transactionID int64, approved bool) (*models.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to start transaction: %v", err),
		}
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	txnRepo := repository.NewTransactionRepository(tx)

	result, err := s.performAdjudication(ctx, txnRepo, transactionID, approved)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to commit transaction: %v", err),
		}
	}

	return result, nil
}

// performAdjudication contains the core adjudication business logic
func (s *RefundService) performAdjudication(
	ctx context.Context,
	txnRepo repository.TransactionRepository,
	transactionID int64,
	approved bool,
) (*models.Transaction, error) {
	target, err := txnRepo.FindByIDForUpdate(ctx, transactionID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeTransactionNotFound,
			Message: "refund request not found",
		}
	}

	if target.Action != models.ActionRefundRequest || target.Status != models.StatusPending || target.RefundAttempted {
		return nil, &ServiceError{
			Code:    ErrCodeRefundIneligible,
			Message: "transaction is not a pending refund request",
		}
	}

	if err := txnRepo.MarkRefundAttempted(ctx, target.ID); err != nil {
		if errors.Is(err, models.ErrAlreadyAttempted) {
			return nil, &ServiceError{
				Code:    ErrCodeRefundIneligible,
				Message: "refund request was already adjudicated",
			}
		}
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to set adjudication guard: %v", err),
		}
	}

	now := s.clock.Now()

	var result *models.Transaction
	if approved {
		var refundCents int64
		if target.RefundCents != nil {
			refundCents = *target.RefundCents
		}
		result = models.NewQueuedRefund(target.OwnerID, target.ProductID, refundCents, now)
	} else {
		refundCents := target.RefundCents
		result = &models.Transaction{
			OwnerID:     target.OwnerID,
			ProductID:   target.ProductID,
			Action:      models.ActionRefundRequest,
			Status:      models.StatusDeclined,
			OccurredAt:  now,
			RefundCents: refundCents,
		}
	}

	if err := txnRepo.Create(ctx, result); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to record adjudication: %v", err),
		}
	}

	return result, nil
}
