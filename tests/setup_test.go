//nolint:errcheck // unchecked errors are acceptable in test files
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tmarkov/subledger/internal/clock"
	"github.com/tmarkov/subledger/internal/config"
	"github.com/tmarkov/subledger/internal/db"
	"github.com/tmarkov/subledger/internal/gateway"
	"github.com/tmarkov/subledger/internal/handlers"
	"github.com/tmarkov/subledger/internal/notifier"
	"github.com/tmarkov/subledger/internal/reconciler"
)

// reliableCharger settles every charge immediately. Integration tests use it
// so flows are deterministic; provider failures are exercised with scripted
// outcomes instead.
type reliableCharger struct{}

func (reliableCharger) Charge(_ context.Context, amountCents int64) gateway.Outcome {
	return gateway.Outcome{
		ProviderRef:  uuid.New(),
		Status:       gateway.StatusSuccess,
		SettledCents: amountCents,
	}
}

// scriptedCharger replays a fixed outcome sequence, repeating the last one.
type scriptedCharger struct {
	outcomes []gateway.Outcome
}

func (c *scriptedCharger) Charge(_ context.Context, _ int64) gateway.Outcome {
	outcome := c.outcomes[0]
	if len(c.outcomes) > 1 {
		c.outcomes = c.outcomes[1:]
	}
	return outcome
}

// TestServer wraps the HTTP test server and database for integration tests.
type TestServer struct {
	Server   *httptest.Server
	Database *db.DB
	Gateway  gateway.Charger
	Config   *config.Config
	t        *testing.T
}

// SetupTest creates a test server with a reliable payment provider and a
// clean database state.
func SetupTest(t *testing.T) *TestServer {
	return SetupTestWithCharger(t, reliableCharger{})
}

// SetupTestWithCharger creates a test server using the given provider.
func SetupTestWithCharger(t *testing.T, gw gateway.Charger) *TestServer {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err, "failed to load config")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	database, err := db.Connect(context.Background(), &cfg.Database, logger)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	resetTestData(t, database)

	n := notifier.NewLogNotifier(logger)
	router := handlers.NewRouter(database, gw, n, clock.NewSystem(), cfg, logger)
	server := httptest.NewServer(router)

	return &TestServer{
		Server:   server,
		Database: database,
		Gateway:  gw,
		Config:   cfg,
		t:        t,
	}
}

// Close shuts down the test server and database connection.
func (ts *TestServer) Close() {
	ts.Server.Close()
	_ = ts.Database.Close()
}

// URL returns the full URL for a given path.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

// RunReconciler executes one reconciliation pass against the test database.
func (ts *TestServer) RunReconciler(t *testing.T) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := reconciler.New(ts.Database, ts.Gateway, clock.NewSystem(), logger, ts.Config.App.ReconcileInterval)
	require.NoError(t, rec.Reconcile(context.Background()))
}

func resetTestData(t *testing.T, database *db.DB) {
	t.Helper()

	_, err := database.ExecContext(context.Background(), `
		TRUNCATE TABLE transactions CASCADE;
		TRUNCATE TABLE subscriptions CASCADE;
		TRUNCATE TABLE idempotency_keys CASCADE;
		DELETE FROM promos;
		DELETE FROM users;
		DELETE FROM products;
		INSERT INTO users (id, name, email, is_admin) VALUES
			(1, 'Alice Rivera', 'alice@example.com', FALSE),
			(2, 'Bruno Keller', 'bruno@example.com', FALSE),
			(3, 'Root Admin', 'admin@example.com', TRUE);
		INSERT INTO products (id, name, price_cents) VALUES
			(1, 'Starter Plan', 500),
			(2, 'Pro Plan', 1500),
			(3, 'Enterprise Plan', 5000);
		INSERT INTO promos (name, product_id, discount_percent, expires_at) VALUES
			('LAUNCH10', 2, 10, NOW() + INTERVAL '90 days'),
			('EXPIRED50', 1, 50, NOW() - INTERVAL '1 day');
	`)
	require.NoError(t, err, "failed to reset test data")
}

// do sends a JSON request carrying the caller's identity headers.
func (ts *TestServer) do(t *testing.T, method, path string, body map[string]any, userID int64, admin bool, idempotencyKey string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.URL(path), reader)
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", strconv.FormatInt(userID, 10))
	if admin {
		req.Header.Set("X-User-Role", "admin")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

// Purchase sends a POST request to buy a subscription.
func (ts *TestServer) Purchase(t *testing.T, userID, productID int64, promoName, idempotencyKey string) *http.Response {
	t.Helper()

	body := map[string]any{"product_id": productID}
	if promoName != "" {
		body["promo_name"] = promoName
	}
	return ts.do(t, http.MethodPost, "/api/v1/subscriptions", body, userID, false, idempotencyKey)
}

// Cancel sends a DELETE request to cancel a subscription.
func (ts *TestServer) Cancel(t *testing.T, userID, productID int64) *http.Response {
	t.Helper()
	return ts.do(t, http.MethodDelete, "/api/v1/subscriptions", map[string]any{"product_id": productID}, userID, false, "")
}

// RequestRefund sends a POST request to file a refund request.
func (ts *TestServer) RequestRefund(t *testing.T, userID, transactionID int64) *http.Response {
	t.Helper()
	return ts.do(t, http.MethodPost, "/api/v1/refunds", map[string]any{"transaction_id": transactionID}, userID, false, "")
}

// Adjudicate resolves a pending refund request as the admin.
func (ts *TestServer) Adjudicate(t *testing.T, requestID int64, approved bool) *http.Response {
	t.Helper()

	path := "/api/v1/refunds/" + strconv.FormatInt(requestID, 10) + "/adjudicate"
	return ts.do(t, http.MethodPost, path, map[string]any{"approved": approved}, 3, true, "")
}

// History fetches a user's transaction history.
func (ts *TestServer) History(t *testing.T, userID int64) []map[string]any {
	t.Helper()

	resp := ts.do(t, http.MethodGet, "/api/v1/transactions", nil, userID, false, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	return history
}

// decode reads a JSON object response body.
func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}
