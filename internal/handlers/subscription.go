package handlers

import (
	"net/http"
	"strconv"
)

type purchaseRequest struct {
	PromoName *string `json:"promo_name,omitempty"`
	ProductID int64   `json:"product_id"`
}

type purchaseResponse struct {
	Transaction  transactionResponse  `json:"transaction"`
	Subscription subscriptionResponse `json:"subscription"`
}

// CreateSubscription handles POST /api/v1/subscriptions
func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	var req purchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request_body", "invalid request body")
		return
	}
	if req.ProductID <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	result, err := h.purchaseService.Purchase(r.Context(), identity.UserID, req.ProductID, req.PromoName)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, purchaseResponse{
		Transaction:  newTransactionResponse(result.Transaction),
		Subscription: newSubscriptionResponse(result.Subscription),
	})
}

// ListSubscriptions handles GET /api/v1/subscriptions
func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	var ownerID *int64
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be an integer")
			return
		}
		ownerID = &parsed
	}

	subs, err := h.subscriptions.List(r.Context(), identity.UserID, ownerID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newSubscriptionResponses(subs))
}

type cancelRequest struct {
	OwnerID   *int64 `json:"owner_id,omitempty"`
	ProductID int64  `json:"product_id"`
}

// CancelSubscription handles DELETE /api/v1/subscriptions
func (h *Handler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request_body", "invalid request body")
		return
	}
	if req.ProductID <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	ownerID := identity.UserID
	if req.OwnerID != nil {
		ownerID = *req.OwnerID
	}

	txn, err := h.cancelService.Cancel(r.Context(), identity.UserID, ownerID, req.ProductID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newTransactionResponse(txn))
}
