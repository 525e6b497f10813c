package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tmarkov/subledger/internal/clock"
	"github.com/tmarkov/subledger/internal/db"
	"github.com/tmarkov/subledger/internal/gateway"
	"github.com/tmarkov/subledger/internal/models"
	"github.com/tmarkov/subledger/internal/notifier"
	"github.com/tmarkov/subledger/internal/repository"
)

// PurchaseResult pairs the ledger entry of a successful purchase with the
// subscription it activated.
type PurchaseResult struct {
	Transaction  *models.Transaction
	Subscription *models.Subscription
}

// PurchaseService orchestrates subscription purchases against the payment
// provider.
type PurchaseService struct {
	db       *db.DB
	gateway  gateway.Charger
	notifier notifier.Notifier
	clock    clock.Clock
	term     time.Duration
}

// NewPurchaseService creates a new PurchaseService. term is how long a new
// subscription stays active.
func NewPurchaseService(
	database *db.DB,
	gw gateway.Charger,
	n notifier.Notifier,
	clk clock.Clock,
	term time.Duration,
) *PurchaseService {
	return &PurchaseService{
		db:       database,
		gateway:  gw,
		notifier: n,
		clock:    clk,
		term:     term,
	}
}

// Purchase charges the owner for a product subscription. The attempt is
// durably recorded whatever the provider answers; the subscription itself is
// only created on a successful charge.
func (s *PurchaseService) Purchase(ctx context.Context, ownerID, productID int64, promoName *string) (*PurchaseResult, error) {
	userRepo := repository.NewUserRepository(s.db)
	productRepo := repository.NewProductRepository(s.db)
	promoRepo := repository.NewPromoRepository(s.db)
	subRepo := repository.NewSubscriptionRepository(s.db)

	owner, product, priceCents, err := s.validatePurchase(ctx, userRepo, productRepo, promoRepo, subRepo, ownerID, productID, promoName)
	if err != nil {
		return nil, err
	}

	// The provider call happens outside any database transaction: it may
	// block for the simulated network delay, and its outcome is recorded no
	// matter what it is.
	outcome := s.gateway.Charge(ctx, priceCents)

	txn, err := s.recordAttempt(ctx, ownerID, productID, promoName, outcome)
	if err != nil {
		return nil, err
	}

	// The ledger entry is committed at this point. A declined attempt fails
	// the operation but the audit record stays.
	if err := declineError(outcome.Status); err != nil {
		return nil, err
	}

	sub, err := s.activateSubscription(ctx, subRepo, ownerID, productID, priceCents)
	if err != nil {
		return nil, err
	}

	// Fire and forget; delivery failures are logged by the notifier and
	// never fail the purchase.
	s.notifier.NewSubscription(ctx, owner.Email, product.Name, priceCents)

	return &PurchaseResult{Transaction: txn, Subscription: sub}, nil
}

// validatePurchase runs the eligibility checks and computes the final price.
func (s *PurchaseService) validatePurchase(
	ctx context.Context,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	promoRepo repository.PromoRepository,
	subRepo repository.SubscriptionRepository,
	ownerID, productID int64,
	promoName *string,
) (*models.User, *models.Product, int64, error) {
	owner, err := userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, nil, 0, &ServiceError{
			Code:    ErrCodeUserNotFound,
			Message: "user not found",
		}
	}
	if owner.IsAdmin {
		return nil, nil, 0, &ServiceError{
			Code:    ErrCodeUnauthorized,
			Message: "privileged accounts cannot purchase subscriptions",
		}
	}

	product, err := productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, nil, 0, &ServiceError{
			Code:    ErrCodeProductNotFound,
			Message: "product not found",
		}
	}

	if _, err := subRepo.FindByOwnerAndProduct(ctx, ownerID, productID); err == nil {
		return nil, nil, 0, &ServiceError{
			Code:    ErrCodeAlreadySubscribed,
			Message: "already subscribed to this product",
		}
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, nil, 0, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to check existing subscription: %v", err),
		}
	}

	priceCents := product.PriceCents
	if promoName != nil {
		promo, err := promoRepo.FindByName(ctx, *promoName)
		if err != nil {
			return nil, nil, 0, &ServiceError{
				Code:    ErrCodePromoNotFound,
				Message: "promo not found",
			}
		}
		if promo.ProductID != productID {
			return nil, nil, 0, &ServiceError{
				Code:    ErrCodePromoNotFound,
				Message: "promo does not apply to this product",
			}
		}
		if s.clock.Now().After(promo.ExpiresAt) {
			return nil, nil, 0, &ServiceError{
				Code:    ErrCodePromoExpired,
				Message: "promo has expired",
			}
		}
		priceCents = DiscountedPrice(priceCents, promo.DiscountPercent)
	}

	return owner, product, priceCents, nil
}

// recordAttempt writes the NewSubscription ledger entry for a charge attempt
// and commits it before the caller branches on the outcome.
func (s *PurchaseService) recordAttempt(ctx context.Context, ownerID, productID int64, promoName *string, outcome gateway.Outcome) (*models.Transaction, error) {
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
	txn, err := s.writeAttempt(ctx, txnRepo, ownerID, productID, promoName, outcome)
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

// writeAttempt builds and inserts the ledger entry for a charge attempt.
func (s *PurchaseService) writeAttempt(
	ctx context.Context,
	txnRepo repository.TransactionRepository,
	ownerID, productID int64,
	promoName *string,
	outcome gateway.Outcome,
) (*models.Transaction, error) {
	txn := &models.Transaction{
		OwnerID:     ownerID,
		ProductID:   productID,
		PromoName:   promoName,
		Action:      models.ActionNewSubscription,
		Status:      transactionStatus(outcome.Status),
		OccurredAt:  s.clock.Now(),
		LedgerDelta: outcome.SettledCents,
	}

	if err := txnRepo.Create(ctx, txn); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to record payment attempt: %v", err),
		}
	}

	return txn, nil
}

func (s *PurchaseService) activateSubscription(
	ctx context.Context,
	subRepo repository.SubscriptionRepository,
	ownerID, productID, priceCents int64,
) (*models.Subscription, error) {
	sub := &models.Subscription{
		OwnerID:    ownerID,
		ProductID:  productID,
		PriceCents: priceCents,
		Status:     models.SubscriptionStatusActive,
		ExpiresAt:  s.clock.Now().Add(s.term),
	}

	if err := subRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, models.ErrDuplicateSubscription) {
			return nil, &ServiceError{
				Code:    ErrCodeAlreadySubscribed,
				Message: "already subscribed to this product",
			}
		}
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to create subscription: %v", err),
		}
	}

	return sub, nil
}

// declineError maps a failed provider outcome to the operation error the
// caller sees. Success maps to nil.
func declineError(status gateway.Status) error {
	switch status {
	case gateway.StatusTimeout:
		return &ServiceError{
			Code:    ErrCodePaymentTimeout,
			Message: "payment provider timed out",
		}
	case gateway.StatusInsufficientFunds:
		return &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: "insufficient funds",
		}
	default:
		return nil
	}
}

func transactionStatus(s gateway.Status) models.TransactionStatus {
	switch s {
	case gateway.StatusTimeout:
		return models.StatusTimeout
	case gateway.StatusInsufficientFunds:
		return models.StatusInsufficientFunds
	default:
		return models.StatusSuccess
	}
}
