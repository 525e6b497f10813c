//nolint:errcheck // unchecked errors are acceptable in test files
package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmarkov/subledger/internal/gateway"
)

func TestPurchaseFlow(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	resp := ts.Purchase(t, 1, 2, "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode(t, resp)
	txn := body["transaction"].(map[string]any)
	sub := body["subscription"].(map[string]any)

	assert.Equal(t, "NEW_SUBSCRIPTION", txn["action"])
	assert.Equal(t, "SUCCESS", txn["status"])
	assert.Equal(t, float64(1500), txn["ledger_delta_cents"])
	assert.Equal(t, "ACTIVE", sub["status"])
	assert.Equal(t, float64(1500), sub["price_cents"])

	history := ts.History(t, 1)
	require.Len(t, history, 1)
	assert.Equal(t, "SUCCESS", history[0]["status"])
}

func TestPurchaseWithPromo(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	resp := ts.Purchase(t, 1, 2, "LAUNCH10", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode(t, resp)
	txn := body["transaction"].(map[string]any)

	assert.Equal(t, float64(1350), txn["ledger_delta_cents"])
	assert.Equal(t, "LAUNCH10", txn["promo_name"])
}

func TestPurchaseWithExpiredPromo(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	resp := ts.Purchase(t, 1, 1, "EXPIRED50", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPurchaseDuplicate(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	resp := ts.Purchase(t, 1, 2, "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = ts.Purchase(t, 1, 2, "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPurchaseProviderTimeoutStillRecorded(t *testing.T) {
	ts := SetupTestWithCharger(t, &scriptedCharger{outcomes: []gateway.Outcome{
		{Status: gateway.StatusTimeout},
	}})
	defer ts.Close()

	resp := ts.Purchase(t, 1, 2, "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)

	// The failed attempt is still on the ledger.
	history := ts.History(t, 1)
	require.Len(t, history, 1)
	assert.Equal(t, "TIMEOUT", history[0]["status"])
	assert.Equal(t, float64(0), history[0]["ledger_delta_cents"])
}

func TestPurchaseInsufficientFundsStillRecorded(t *testing.T) {
	ts := SetupTestWithCharger(t, &scriptedCharger{outcomes: []gateway.Outcome{
		{Status: gateway.StatusInsufficientFunds},
	}})
	defer ts.Close()

	resp := ts.Purchase(t, 1, 2, "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	history := ts.History(t, 1)
	require.Len(t, history, 1)
	assert.Equal(t, "INSUFFICIENT_FUNDS", history[0]["status"])

	// A failed charge does not create a subscription.
	listResp := ts.do(t, http.MethodGet, "/api/v1/subscriptions", nil, 1, false, "")
	defer listResp.Body.Close()
	var subs []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&subs))
	assert.Empty(t, subs)
}

func TestCancelFlow(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	resp := ts.Purchase(t, 1, 2, "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	cancelResp := ts.Cancel(t, 1, 2)
	require.Equal(t, http.StatusOK, cancelResp.StatusCode)

	body := decode(t, cancelResp)
	assert.Equal(t, "CANCEL_SUBSCRIPTION", body["action"])
	assert.Equal(t, float64(0), body["ledger_delta_cents"])

	// The subscription is gone; the purchase record is not.
	listResp := ts.do(t, http.MethodGet, "/api/v1/subscriptions", nil, 1, false, "")
	defer listResp.Body.Close()
	var subs []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&subs))
	assert.Empty(t, subs)

	history := ts.History(t, 1)
	assert.Len(t, history, 2)
}

func TestCancelWithoutSubscription(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	resp := ts.Cancel(t, 1, 2)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFullRefundFlow(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	// Purchase, then request a refund of the charge.
	resp := ts.Purchase(t, 1, 2, "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	purchaseBody := decode(t, resp)
	chargeID := int64(purchaseBody["transaction"].(map[string]any)["id"].(float64))

	refundResp := ts.RequestRefund(t, 1, chargeID)
	require.Equal(t, http.StatusCreated, refundResp.StatusCode)
	requestBody := decode(t, refundResp)
	requestID := int64(requestBody["id"].(float64))
	assert.Equal(t, "PENDING", requestBody["status"])
	assert.Equal(t, float64(1500), requestBody["refund_cents"])

	// The admin sees it pending and approves it.
	pendingResp := ts.do(t, http.MethodGet, "/api/v1/refunds/pending", nil, 3, true, "")
	var pending []map[string]any
	require.NoError(t, json.NewDecoder(pendingResp.Body).Decode(&pending))
	pendingResp.Body.Close()
	require.Len(t, pending, 1)

	adjResp := ts.Adjudicate(t, requestID, true)
	require.Equal(t, http.StatusOK, adjResp.StatusCode)
	adjBody := decode(t, adjResp)
	assert.Equal(t, "AWAITING_SETTLEMENT", adjBody["status"])
	assert.Equal(t, float64(0), adjBody["owner_id"])

	// The queued entry is invisible to the user until it settles.
	history := ts.History(t, 1)
	for _, entry := range history {
		assert.NotEqual(t, "AWAITING_SETTLEMENT", entry["status"])
	}

	ts.RunReconciler(t)

	// After reconciliation the settled refund is attributed to the user.
	history = ts.History(t, 1)
	var settled map[string]any
	for _, entry := range history {
		if entry["action"] == "REFUND_REQUEST" && entry["status"] == "SUCCESS" {
			settled = entry
		}
	}
	require.NotNil(t, settled, "settled refund should appear in the user's history")
	assert.Equal(t, float64(1500), settled["refund_cents"])
}

func TestRefundDeclined(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	resp := ts.Purchase(t, 1, 2, "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	chargeID := int64(decode(t, resp)["transaction"].(map[string]any)["id"].(float64))

	refundResp := ts.RequestRefund(t, 1, chargeID)
	require.Equal(t, http.StatusCreated, refundResp.StatusCode)
	requestID := int64(decode(t, refundResp)["id"].(float64))

	adjResp := ts.Adjudicate(t, requestID, false)
	require.Equal(t, http.StatusOK, adjResp.StatusCode)
	adjBody := decode(t, adjResp)
	assert.Equal(t, "DECLINED", adjBody["status"])
	assert.Equal(t, float64(1), adjBody["owner_id"])

	// Nothing left for the reconciler.
	ts.RunReconciler(t)
}

func TestRefundSecondRequestRejected(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	resp := ts.Purchase(t, 1, 2, "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	chargeID := int64(decode(t, resp)["transaction"].(map[string]any)["id"].(float64))

	refundResp := ts.RequestRefund(t, 1, chargeID)
	require.Equal(t, http.StatusCreated, refundResp.StatusCode)
	refundResp.Body.Close()

	second := ts.RequestRefund(t, 1, chargeID)
	defer second.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, second.StatusCode)
}

func TestRefundOfForeignChargeHidden(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	resp := ts.Purchase(t, 1, 2, "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	chargeID := int64(decode(t, resp)["transaction"].(map[string]any)["id"].(float64))

	// Another user cannot even learn that the charge exists.
	refundResp := ts.RequestRefund(t, 2, chargeID)
	defer refundResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, refundResp.StatusCode)
}

func TestPendingRefundsRequiresAdmin(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	resp := ts.do(t, http.MethodGet, "/api/v1/refunds/pending", nil, 1, false, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestReconcilerRetriesUntilSuccess(t *testing.T) {
	// First settlement attempt times out, second succeeds.
	ts := SetupTestWithCharger(t, &scriptedCharger{outcomes: []gateway.Outcome{
		{Status: gateway.StatusSuccess, SettledCents: 1500}, // purchase
		{Status: gateway.StatusTimeout},                     // first settlement attempt
		{Status: gateway.StatusSuccess, SettledCents: 1500}, // second settlement attempt
	}})
	defer ts.Close()

	resp := ts.Purchase(t, 1, 2, "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	chargeID := int64(decode(t, resp)["transaction"].(map[string]any)["id"].(float64))

	refundResp := ts.RequestRefund(t, 1, chargeID)
	require.Equal(t, http.StatusCreated, refundResp.StatusCode)
	requestID := int64(decode(t, refundResp)["id"].(float64))

	adjResp := ts.Adjudicate(t, requestID, true)
	require.Equal(t, http.StatusOK, adjResp.StatusCode)
	adjResp.Body.Close()

	// First pass fails; the entry must stay queued with its amount intact.
	ts.RunReconciler(t)

	var queuedCount int
	var queuedCents int64
	row := ts.Database.QueryRowContext(context.Background(),
		`SELECT COUNT(*), COALESCE(MAX(refund_cents), 0) FROM transactions WHERE owner_id = 0`)
	require.NoError(t, row.Scan(&queuedCount, &queuedCents))
	assert.Equal(t, 1, queuedCount)
	assert.Equal(t, int64(1500), queuedCents)

	// Second pass settles it.
	ts.RunReconciler(t)

	row = ts.Database.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM transactions WHERE owner_id = 0`)
	require.NoError(t, row.Scan(&queuedCount))
	assert.Equal(t, 0, queuedCount)
}

func TestIdempotencyReplaysSameResponse(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	first := ts.Purchase(t, 1, 2, "", "purchase-key-1")
	require.Equal(t, http.StatusCreated, first.StatusCode)
	firstBody := decode(t, first)
	firstID := firstBody["transaction"].(map[string]any)["id"].(float64)

	replay := ts.Purchase(t, 1, 2, "", "purchase-key-1")
	require.Equal(t, http.StatusCreated, replay.StatusCode)
	assert.Equal(t, "true", replay.Header.Get("X-Idempotent-Replayed"))
	replayBody := decode(t, replay)
	assert.Equal(t, firstID, replayBody["transaction"].(map[string]any)["id"].(float64))

	// Only one ledger entry was written.
	history := ts.History(t, 1)
	assert.Len(t, history, 1)
}

func TestTransactionLookup(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	purchase := ts.Purchase(t, 1, 2, "", "")
	require.Equal(t, http.StatusCreated, purchase.StatusCode)
	purchaseBody := decode(t, purchase)
	txnID := int64(purchaseBody["transaction"].(map[string]any)["id"].(float64))

	path := "/api/v1/transactions/" + strconv.FormatInt(txnID, 10)

	owner := ts.do(t, http.MethodGet, path, nil, 1, false, "")
	require.Equal(t, http.StatusOK, owner.StatusCode)
	ownerBody := decode(t, owner)
	assert.Equal(t, float64(txnID), ownerBody["id"].(float64))
	assert.Equal(t, float64(1500), ownerBody["ledger_delta_cents"].(float64))

	// Another user's entry reads as absent.
	foreign := ts.do(t, http.MethodGet, path, nil, 2, false, "")
	defer foreign.Body.Close()
	assert.Equal(t, http.StatusNotFound, foreign.StatusCode)

	// Admins can fetch any entry.
	admin := ts.do(t, http.MethodGet, path, nil, 3, true, "")
	defer admin.Body.Close()
	assert.Equal(t, http.StatusOK, admin.StatusCode)
}

func TestIdempotencyKeyDoesNotLeakAcrossUsers(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	first := ts.Purchase(t, 1, 2, "", "shared-key")
	require.Equal(t, http.StatusCreated, first.StatusCode)
	firstBody := decode(t, first)
	firstOwner := firstBody["transaction"].(map[string]any)["owner_id"].(float64)
	require.Equal(t, float64(1), firstOwner)

	// A different user reusing the same key gets their own purchase
	// executed, not user 1's cached response.
	second := ts.Purchase(t, 2, 2, "", "shared-key")
	require.Equal(t, http.StatusCreated, second.StatusCode)
	assert.Empty(t, second.Header.Get("X-Idempotent-Replayed"))
	secondBody := decode(t, second)
	assert.Equal(t, float64(2), secondBody["transaction"].(map[string]any)["owner_id"].(float64))

	assert.Len(t, ts.History(t, 1), 1)
	assert.Len(t, ts.History(t, 2), 1)
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL("/api/v1/transactions"), nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL("/health"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminSeesAnyHistory(t *testing.T) {
	ts := SetupTest(t)
	defer ts.Close()

	resp := ts.Purchase(t, 1, 2, "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	adminResp := ts.do(t, http.MethodGet, "/api/v1/transactions?user_id="+strconv.Itoa(1), nil, 3, true, "")
	defer adminResp.Body.Close()
	require.Equal(t, http.StatusOK, adminResp.StatusCode)

	var history []map[string]any
	require.NoError(t, json.NewDecoder(adminResp.Body).Decode(&history))
	assert.Len(t, history, 1)
}
