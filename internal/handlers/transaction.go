package handlers

import (
	"net/http"
	"strconv"
)

// ListTransactions handles GET /api/v1/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	ownerID := identity.UserID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be an integer")
			return
		}
		ownerID = parsed
	}

	history, err := h.historyService.History(r.Context(), identity.UserID, ownerID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newTransactionResponses(history))
}

// GetTransaction handles GET /api/v1/transactions/{id}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	transactionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || transactionID <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_transaction_id", "invalid transaction id")
		return
	}

	txn, err := h.historyService.Get(r.Context(), identity.UserID, transactionID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newTransactionResponse(txn))
}

// ListRefundEligible handles GET /api/v1/transactions/refund-eligible
func (h *Handler) ListRefundEligible(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	eligible, err := h.historyService.RefundEligible(r.Context(), identity.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newTransactionResponses(eligible))
}
