// Package handlers implements HTTP handlers for the subledger API.
package handlers

import (
	"log/slog"

	"github.com/tmarkov/subledger/internal/service"
)

// Handler holds the service dependencies behind the API surface
type Handler struct {
	purchaseService service.Purchaser
	refundService   service.Refunder
	cancelService   service.Canceler
	historyService  service.Historian
	subscriptions   service.SubscriptionLister
	healthChecker   service.HealthChecker
	logger          *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	purchaseService service.Purchaser,
	refundService service.Refunder,
	cancelService service.Canceler,
	historyService service.Historian,
	subscriptions service.SubscriptionLister,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		purchaseService: purchaseService,
		refundService:   refundService,
		cancelService:   cancelService,
		historyService:  historyService,
		subscriptions:   subscriptions,
		healthChecker:   healthChecker,
		logger:          logger,
	}
}
