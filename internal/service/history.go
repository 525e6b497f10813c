package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tmarkov/subledger/internal/clock"
	"github.com/tmarkov/subledger/internal/db"
	"github.com/tmarkov/subledger/internal/models"
	"github.com/tmarkov/subledger/internal/repository"
)

// HistoryService exposes ledger queries. Owner-scoped reads structurally
// exclude sentinel-owned queue entries, so deferred work never shows up in a
// user's history until it settles.
type HistoryService struct {
	db     *db.DB
	clock  clock.Clock
	window time.Duration
}

// NewHistoryService creates a new HistoryService. window is the refund
// eligibility period used by RefundEligible.
func NewHistoryService(database *db.DB, clk clock.Clock, window time.Duration) *HistoryService {
	return &HistoryService{
		db:     database,
		clock:  clk,
		window: window,
	}
}

// History returns ownerID's transaction history. Non-privileged callers
// always get their own history regardless of the requested owner.
func (s *HistoryService) History(ctx context.Context, callerID, ownerID int64) ([]*models.Transaction, error) {
	userRepo := repository.NewUserRepository(s.db)
	txnRepo := repository.NewTransactionRepository(s.db)

	caller, err := userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeUserNotFound,
			Message: "user not found",
		}
	}

	if !caller.IsAdmin {
		ownerID = callerID
	} else if ownerID != callerID {
		if _, err := userRepo.FindByID(ctx, ownerID); err != nil {
			return nil, &ServiceError{
				Code:    ErrCodeUserNotFound,
				Message: "user not found",
			}
		}
	}

	history, err := txnRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to read transaction history: %v", err),
		}
	}

	return history, nil
}

// Get returns a single ledger entry by id. Sentinel-owned queue entries read
// as absent for everyone, and non-privileged callers only see their own
// entries; a foreign entry is indistinguishable from a missing one.
func (s *HistoryService) Get(ctx context.Context, callerID, transactionID int64) (*models.Transaction, error) {
	userRepo := repository.NewUserRepository(s.db)
	txnRepo := repository.NewTransactionRepository(s.db)

	caller, err := userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeUserNotFound,
			Message: "user not found",
		}
	}

	txn, err := txnRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeTransactionNotFound,
			Message: "transaction not found",
		}
	}

	if txn.OwnerID == models.SystemOwnerID || (!caller.IsAdmin && txn.OwnerID != callerID) {
		return nil, &ServiceError{
			Code:    ErrCodeTransactionNotFound,
			Message: "transaction not found",
		}
	}

	return txn, nil
}

// RefundEligible returns the caller's charges still inside the refund window
// with no refund attempted yet.
func (s *HistoryService) RefundEligible(ctx context.Context, ownerID int64) ([]*models.Transaction, error) {
	txnRepo := repository.NewTransactionRepository(s.db)

	cutoff := s.clock.Now().Add(-s.window)
	eligible, err := txnRepo.FindRefundEligible(ctx, ownerID, cutoff)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to read refund-eligible transactions: %v", err),
		}
	}

	return eligible, nil
}
