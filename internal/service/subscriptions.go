package service

import (
	"context"
	"fmt"

	"github.com/tmarkov/subledger/internal/db"
	"github.com/tmarkov/subledger/internal/models"
	"github.com/tmarkov/subledger/internal/repository"
)

// SubscriptionQueryService exposes subscription listings.
//
// TODO: nothing prunes subscriptions past expires_at yet; listings include
// them until expiry handling lands.
type SubscriptionQueryService struct {
	db *db.DB
}

// NewSubscriptionQueryService creates a new SubscriptionQueryService
func NewSubscriptionQueryService(database *db.DB) *SubscriptionQueryService {
	return &SubscriptionQueryService{db: database}
}

// List returns subscriptions visible to the caller: non-privileged callers
// get their own; admins get a specific user's with ownerID set, or every
// subscription without it.
func (s *SubscriptionQueryService) List(ctx context.Context, callerID int64, ownerID *int64) ([]*models.Subscription, error) {
	userRepo := repository.NewUserRepository(s.db)
	subRepo := repository.NewSubscriptionRepository(s.db)

	caller, err := userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeUserNotFound,
			Message: "user not found",
		}
	}

	if !caller.IsAdmin {
		return s.listOwned(ctx, subRepo, callerID)
	}

	if ownerID != nil {
		if _, err := userRepo.FindByID(ctx, *ownerID); err != nil {
			return nil, &ServiceError{
				Code:    ErrCodeUserNotFound,
				Message: "user not found",
			}
		}
		return s.listOwned(ctx, subRepo, *ownerID)
	}

	subs, err := subRepo.FindAll(ctx)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to list subscriptions: %v", err),
		}
	}
	return subs, nil
}

func (s *SubscriptionQueryService) listOwned(ctx context.Context, subRepo repository.SubscriptionRepository, ownerID int64) ([]*models.Subscription, error) {
	subs, err := subRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to list subscriptions: %v", err),
		}
	}
	return subs, nil
}
