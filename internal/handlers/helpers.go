package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tmarkov/subledger/internal/middleware"
	"github.com/tmarkov/subledger/internal/models"
	"github.com/tmarkov/subledger/internal/service"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// transactionResponse is the wire shape of a ledger entry.
type transactionResponse struct {
	OccurredAt      time.Time `json:"occurred_at"`
	PromoName       *string   `json:"promo_name,omitempty"`
	RefundCents     *int64    `json:"refund_cents,omitempty"`
	Action          string    `json:"action"`
	Status          string    `json:"status"`
	ID              int64     `json:"id"`
	OwnerID         int64     `json:"owner_id"`
	ProductID       int64     `json:"product_id"`
	LedgerDelta     int64     `json:"ledger_delta_cents"`
	RefundAttempted bool      `json:"refund_attempted"`
}

// subscriptionResponse is the wire shape of a subscription.
type subscriptionResponse struct {
	ExpiresAt  time.Time `json:"expires_at"`
	Status     string    `json:"status"`
	ID         int64     `json:"id"`
	OwnerID    int64     `json:"owner_id"`
	ProductID  int64     `json:"product_id"`
	PriceCents int64     `json:"price_cents"`
}

func newTransactionResponse(txn *models.Transaction) transactionResponse {
	return transactionResponse{
		ID:              txn.ID,
		OwnerID:         txn.OwnerID,
		ProductID:       txn.ProductID,
		PromoName:       txn.PromoName,
		Action:          string(txn.Action),
		Status:          string(txn.Status),
		OccurredAt:      txn.OccurredAt,
		LedgerDelta:     txn.LedgerDelta,
		RefundCents:     txn.RefundCents,
		RefundAttempted: txn.RefundAttempted,
	}
}

func newTransactionResponses(txns []*models.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, newTransactionResponse(txn))
	}
	return out
}

func newSubscriptionResponse(sub *models.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:         sub.ID,
		OwnerID:    sub.OwnerID,
		ProductID:  sub.ProductID,
		PriceCents: sub.PriceCents,
		Status:     string(sub.Status),
		ExpiresAt:  sub.ExpiresAt,
	}
}

func newSubscriptionResponses(subs []*models.Subscription) []subscriptionResponse {
	out := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, newSubscriptionResponse(sub))
	}
	return out
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error to its HTTP response.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		h.logger.Error("unexpected error", "error", err)
		h.writeError(w, http.StatusInternalServerError, service.ErrCodeInternalError, "internal error")
		return
	}

	h.writeError(w, statusForCode(svcErr.Code), svcErr.Code, svcErr.Message)
}

func statusForCode(code string) int {
	switch code {
	case service.ErrCodeUserNotFound,
		service.ErrCodeProductNotFound,
		service.ErrCodePromoNotFound,
		service.ErrCodeTransactionNotFound,
		service.ErrCodeSubscriptionNotFound:
		return http.StatusNotFound
	case service.ErrCodeAlreadySubscribed:
		return http.StatusConflict
	case service.ErrCodeUnauthorized:
		return http.StatusForbidden
	case service.ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	case service.ErrCodePaymentTimeout:
		return http.StatusGatewayTimeout
	case service.ErrCodeRefundIneligible, service.ErrCodePromoExpired:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// callerIdentity pulls the resolved identity off the request, answering 401
// itself when the middleware did not run.
func (h *Handler) callerIdentity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthenticated", "request has no resolved identity")
		return middleware.Identity{}, false
	}
	return identity, true
}

// requirePrivileged answers 403 unless the caller is an admin.
func (h *Handler) requirePrivileged(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	identity, ok := h.callerIdentity(w, r)
	if !ok {
		return middleware.Identity{}, false
	}
	if !identity.IsPrivileged {
		h.writeError(w, http.StatusForbidden, service.ErrCodeUnauthorized, "must be admin to use this endpoint")
		return middleware.Identity{}, false
	}
	return identity, true
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
