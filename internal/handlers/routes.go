package handlers

import (
	"log/slog"
	"net/http"

	"github.com/tmarkov/subledger/internal/api"
	"github.com/tmarkov/subledger/internal/clock"
	"github.com/tmarkov/subledger/internal/config"
	"github.com/tmarkov/subledger/internal/db"
	"github.com/tmarkov/subledger/internal/gateway"
	"github.com/tmarkov/subledger/internal/middleware"
	"github.com/tmarkov/subledger/internal/notifier"
	"github.com/tmarkov/subledger/internal/repository"
	"github.com/tmarkov/subledger/internal/service"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	database *db.DB,
	gw gateway.Charger,
	n notifier.Notifier,
	clk clock.Clock,
	cfg *config.Config,
	logger *slog.Logger,
) http.Handler {
	purchaseService := service.NewPurchaseService(database, gw, n, clk, cfg.App.SubscriptionTerm)
	refundService := service.NewRefundService(database, clk, cfg.App.RefundWindow)
	cancelService := service.NewCancelService(database, clk)
	historyService := service.NewHistoryService(database, clk, cfg.App.RefundWindow)
	subscriptionService := service.NewSubscriptionQueryService(database)

	handler := NewHandler(
		purchaseService,
		refundService,
		cancelService,
		historyService,
		subscriptionService,
		database,
		logger,
	)

	mux := http.NewServeMux()
	api.RegisterDocsRoutes(mux)

	mux.HandleFunc("GET /health", handler.Health)

	mux.HandleFunc("POST /api/v1/subscriptions", handler.CreateSubscription)
	mux.HandleFunc("GET /api/v1/subscriptions", handler.ListSubscriptions)
	mux.HandleFunc("DELETE /api/v1/subscriptions", handler.CancelSubscription)

	mux.HandleFunc("GET /api/v1/transactions", handler.ListTransactions)
	mux.HandleFunc("GET /api/v1/transactions/refund-eligible", handler.ListRefundEligible)
	mux.HandleFunc("GET /api/v1/transactions/{id}", handler.GetTransaction)

	mux.HandleFunc("POST /api/v1/refunds", handler.CreateRefund)
	mux.HandleFunc("GET /api/v1/refunds/pending", handler.ListPendingRefunds)
	mux.HandleFunc("POST /api/v1/refunds/{id}/adjudicate", handler.AdjudicateRefund)

	var finalHandler http.Handler = mux

	idempotencyRepo := repository.NewIdempotencyRepository(database)
	finalHandler = middleware.Idempotency(idempotencyRepo, logger)(finalHandler)

	finalHandler = middleware.ResolveIdentity(logger)(finalHandler)

	return finalHandler
}
