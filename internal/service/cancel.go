package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmarkov/subledger/internal/clock"
	"github.com/tmarkov/subledger/internal/db"
	"github.com/tmarkov/subledger/internal/models"
	"github.com/tmarkov/subledger/internal/repository"
)

// CancelService handles subscription cancellations. No provider involvement:
// cancellation removes the subscription and records a zero-delta ledger
// entry in one database transaction.
type CancelService struct {
	db    *db.DB
	clock clock.Clock
}

// NewCancelService creates a new CancelService
func NewCancelService(database *db.DB, clk clock.Clock) *CancelService {
	return &CancelService{
		db:    database,
		clock: clk,
	}
}

// Cancel removes ownerID's subscription to a product. Non-privileged callers
// may only cancel their own; admins may cancel on behalf of any owner, which
// is recorded under a distinct action.
func (s *CancelService) Cancel(ctx context.Context, callerID, ownerID, productID int64) (*models.Transaction, error) {
	userRepo := repository.NewUserRepository(s.db)

	caller, err := userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeUserNotFound,
			Message: "user not found",
		}
	}

	action := models.ActionCancelSubscription
	if callerID != ownerID {
		if !caller.IsAdmin {
			return nil, &ServiceError{
				Code:    ErrCodeUnauthorized,
				Message: "cannot cancel another user's subscription",
			}
		}
		action = models.ActionAdminCancel

		if _, err := userRepo.FindByID(ctx, ownerID); err != nil {
			return nil, &ServiceError{
				Code:    ErrCodeUserNotFound,
				Message: "user not found",
			}
		}
	}

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
	subRepo := repository.NewSubscriptionRepository(tx)

	txn, err := s.performCancel(ctx, txnRepo, subRepo, action, ownerID, productID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to commit transaction: %v", err),
		}
	}

	return txn, nil
}

// performCancel contains the core cancellation business logic
func (s *CancelService) performCancel(
	ctx context.Context,
	txnRepo repository.TransactionRepository,
	subRepo repository.SubscriptionRepository,
	action models.TransactionAction,
	ownerID, productID int64,
) (*models.Transaction, error) {
	if err := subRepo.Delete(ctx, ownerID, productID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{
				Code:    ErrCodeSubscriptionNotFound,
				Message: "subscription not found",
			}
		}
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to delete subscription: %v", err),
		}
	}

	txn := &models.Transaction{
		OwnerID:    ownerID,
		ProductID:  productID,
		Action:     action,
		Status:     models.StatusSuccess,
		OccurredAt: s.clock.Now(),
	}

	if err := txnRepo.Create(ctx, txn); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to record cancellation: %v", err),
		}
	}

	return txn, nil
}
