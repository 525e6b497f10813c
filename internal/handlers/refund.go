package handlers

import (
	"net/http"
	"strconv"
)

type refundRequest struct {
	TransactionID int64 `json:"transaction_id"`
}

// CreateRefund handles POST /api/v1/refunds
func (h *Handler) CreateRefund(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.callerIdentity(w, r)
	if !ok {
		return
	}

	var req refundRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request_body", "invalid request body")
		return
	}
	if req.TransactionID <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_transaction_id", "transaction_id must be positive")
		return
	}

	txn, err := h.refundService.Request(r.Context(), identity.UserID, req.TransactionID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, newTransactionResponse(txn))
}

// ListPendingRefunds handles GET /api/v1/refunds/pending
func (h *Handler) ListPendingRefunds(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requirePrivileged(w, r); !ok {
		return
	}

	pending, err := h.refundService.ListPending(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newTransactionResponses(pending))
}

type adjudicateRequest struct {
	Approved bool `json:"approved"`
}

// AdjudicateRefund handles POST /api/v1/refunds/{id}/adjudicate
func (h *Handler) AdjudicateRefund(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requirePrivileged(w, r); !ok {
		return
	}

	transactionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || transactionID <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_transaction_id", "invalid refund request id")
		return
	}

	var req adjudicateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request_body", "invalid request body")
		return
	}

	txn, err := h.refundService.Adjudicate(r.Context(), transactionID, req.Approved)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newTransactionResponse(txn))
}
