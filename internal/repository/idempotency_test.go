package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmarkov/subledger/internal/models"
)

func TestIdempotencyRepository_StoreAndGet(t *testing.T) {
	database := setupTestDB(t)
	defer cleanupTestDB(t, database)
	truncateTables(t, database)

	repo := NewIdempotencyRepository(database)
	ctx := context.Background()

	key := &models.IdempotencyKey{
		Key:            "key-1",
		RequestPath:    "/api/v1/subscriptions",
		UserID:         1,
		ResponseStatus: 201,
		ResponseBody:   `{"id":1}`,
		CreatedAt:      time.Now().UTC(),
	}

	require.NoError(t, repo.Store(ctx, key))

	retrieved, err := repo.Get(ctx, "key-1", "/api/v1/subscriptions", 1)
	require.NoError(t, err)
	assert.Equal(t, 201, retrieved.ResponseStatus)
	assert.Equal(t, `{"id":1}`, retrieved.ResponseBody)
	assert.Equal(t, int64(1), retrieved.UserID)

	// Same key against a different path is a distinct entry.
	_, err = repo.Get(ctx, "key-1", "/api/v1/refunds", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Same key and path for a different user is a distinct entry too.
	_, err = repo.Get(ctx, "key-1", "/api/v1/subscriptions", 2)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestIdempotencyRepository_KeysScopedPerUser(t *testing.T) {
	database := setupTestDB(t)
	defer cleanupTestDB(t, database)
	truncateTables(t, database)

	repo := NewIdempotencyRepository(database)
	ctx := context.Background()

	for _, k := range []*models.IdempotencyKey{
		{
			Key:            "shared-key",
			RequestPath:    "/api/v1/subscriptions",
			UserID:         1,
			ResponseStatus: 201,
			ResponseBody:   `{"owner_id":1}`,
			CreatedAt:      time.Now().UTC(),
		},
		{
			Key:            "shared-key",
			RequestPath:    "/api/v1/subscriptions",
			UserID:         2,
			ResponseStatus: 201,
			ResponseBody:   `{"owner_id":2}`,
			CreatedAt:      time.Now().UTC(),
		},
	} {
		require.NoError(t, repo.Store(ctx, k))
	}

	forUser1, err := repo.Get(ctx, "shared-key", "/api/v1/subscriptions", 1)
	require.NoError(t, err)
	assert.Equal(t, `{"owner_id":1}`, forUser1.ResponseBody)

	forUser2, err := repo.Get(ctx, "shared-key", "/api/v1/subscriptions", 2)
	require.NoError(t, err)
	assert.Equal(t, `{"owner_id":2}`, forUser2.ResponseBody)
}

func TestIdempotencyRepository_StoreIsFirstWriterWins(t *testing.T) {
	database := setupTestDB(t)
	defer cleanupTestDB(t, database)
	truncateTables(t, database)

	repo := NewIdempotencyRepository(database)
	ctx := context.Background()

	first := &models.IdempotencyKey{
		Key:            "key-1",
		RequestPath:    "/api/v1/subscriptions",
		UserID:         1,
		ResponseStatus: 201,
		ResponseBody:   `{"id":1}`,
		CreatedAt:      time.Now().UTC(),
	}
	second := &models.IdempotencyKey{
		Key:            "key-1",
		RequestPath:    "/api/v1/subscriptions",
		UserID:         1,
		ResponseStatus: 409,
		ResponseBody:   `{"error":"already_subscribed"}`,
		CreatedAt:      time.Now().UTC(),
	}

	require.NoError(t, repo.Store(ctx, first))
	require.NoError(t, repo.Store(ctx, second))

	retrieved, err := repo.Get(ctx, "key-1", "/api/v1/subscriptions", 1)
	require.NoError(t, err)
	assert.Equal(t, 201, retrieved.ResponseStatus)
}

func TestIdempotencyRepository_GetMissingKey(t *testing.T) {
	database := setupTestDB(t)
	defer cleanupTestDB(t, database)
	truncateTables(t, database)

	repo := NewIdempotencyRepository(database)

	_, err := repo.Get(context.Background(), "absent", "/api/v1/subscriptions", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
