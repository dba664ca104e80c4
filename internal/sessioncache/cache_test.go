package sessioncache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexcelerate/jobfit/internal/types"
)

// setupTestRedis creates a Redis client for testing. Tests are skipped if
// Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not reachable at %s: %v", addr, err)
	}
	return client
}

func testSession() *types.MatchingSession {
	return &types.MatchingSession{
		SessionID: uuid.NewString(),
		CompanyID: uuid.New(),
		TopMatches: []types.SessionMatchSummary{
			{JobID: uuid.New(), JobTitle: "Software Engineer", MatchScore: 92, Recommendation: types.StrongMatch},
		},
		MatchesFound:      1,
		Method:            types.MethodTitleBased,
		TotalJobsAnalyzed: 4,
	}
}

func TestCacheValidation(t *testing.T) {
	cache := New(nil, 0)
	ctx := context.Background()

	assert.Equal(t, DefaultTTL, cache.TTL())
	assert.Error(t, cache.Save(ctx, &types.MatchingSession{}))

	_, err := cache.Get(ctx, "")
	assert.Error(t, err)
	assert.Error(t, cache.Delete(ctx, ""))
}

func TestCacheSaveGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client := setupTestRedis(t)
	defer client.Close()

	cache := New(client, time.Hour)
	ctx := context.Background()

	session := testSession()
	require.NoError(t, cache.Save(ctx, session))
	assert.False(t, session.ExpiresAt.IsZero())

	got, err := cache.Get(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.SessionID, got.SessionID)
	assert.Equal(t, session.TopMatches, got.TopMatches)

	// Physical key lifetime is twice the logical one.
	ttl := client.TTL(ctx, keyPrefix+session.SessionID).Val()
	assert.Greater(t, ttl, time.Hour)
	assert.LessOrEqual(t, ttl, 2*time.Hour)

	require.NoError(t, cache.Delete(ctx, session.SessionID))
	got, err = cache.Get(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheGetMissing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client := setupTestRedis(t)
	defer client.Close()

	got, err := New(client, time.Hour).Get(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheGetLogicallyExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client := setupTestRedis(t)
	defer client.Close()

	cache := New(client, time.Hour)
	ctx := context.Background()

	// Plant a session whose logical expiry has already passed while the
	// Redis key itself is still alive.
	session := testSession()
	session.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	session.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	payload, err := json.Marshal(session)
	require.NoError(t, err)
	require.NoError(t, client.Set(ctx, keyPrefix+session.SessionID, payload, time.Hour).Err())

	got, err := cache.Get(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
