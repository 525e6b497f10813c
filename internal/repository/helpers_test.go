package repository

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/tmarkov/subledger/internal/config"
	"github.com/tmarkov/subledger/internal/db"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	logger := cfg.Logger.NewLogger()

	database, err := db.Connect(context.Background(), &cfg.Database, logger)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	runMigrations(t, database)

	return database
}

func runMigrations(t *testing.T, database *db.DB) {
	t.Helper()

	migrationPath := filepath.Join("..", "..", "internal", "db", "migrations", "000001_init.up.sql")
	sqlBytes, err := os.ReadFile(migrationPath) // #nosec G304
	if err != nil {
		t.Fatalf("failed to read migration file: %v", err)
	}

	if _, err := database.ExecContext(context.Background(), string(sqlBytes)); err != nil {
		t.Logf("migration execution completed (tables may already exist)")
	}
}

func cleanupTestDB(t *testing.T, database *db.DB) {
	t.Helper()
	if err := database.Close(); err != nil {
		log.Printf("failed to close test database: %v", err)
	}
}

func truncateTables(t *testing.T, database *db.DB) {
	t.Helper()

	tables := []string{"transactions", "subscriptions", "idempotency_keys"}
	for _, table := range tables {
		_, err := database.ExecContext(context.Background(), "TRUNCATE TABLE "+table+" CASCADE")
		if err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}

	_, err := database.ExecContext(context.Background(), `
		DELETE FROM promos;
		DELETE FROM users;
		DELETE FROM products;
		INSERT INTO users (id, name, email, is_admin) VALUES
			(1, 'Alice Rivera', 'alice@example.com', FALSE),
			(2, 'Bruno Keller', 'bruno@example.com', FALSE),
			(3, 'Root Admin', 'admin@example.com', TRUE)
		ON CONFLICT (id) DO NOTHING;
		INSERT INTO products (id, name, price_cents) VALUES
			(1, 'Starter Plan', 500),
			(2, 'Pro Plan', 1500),
			(3, 'Enterprise Plan', 5000)
		ON CONFLICT (id) DO NOTHING;
		INSERT INTO promos (name, product_id, discount_percent, expires_at) VALUES
			('LAUNCH10', 2, 10, NOW() + INTERVAL '90 days'),
			('EXPIRED50', 1, 50, NOW() - INTERVAL '1 day')
		ON CONFLICT (name) DO NOTHING;
	`)
	if err != nil {
		t.Fatalf("failed to reset reference data: %v", err)
	}
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }
