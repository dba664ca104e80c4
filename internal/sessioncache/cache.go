// Package sessioncache stores summarized matching sessions in Redis.
package sessioncache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hexcelerate/jobfit/internal/types"
)

const keyPrefix = "matching_session:"

// DefaultTTL is the logical lifetime of a matching session.
const DefaultTTL = 7 * 24 * time.Hour

// Cache stores matching sessions in Redis. Keys carry a physical TTL of
// twice the logical one; expiry is still checked explicitly on read, so a
// session that physically survives past its ExpiresAt is treated as absent.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// New creates a session cache. ttl <= 0 selects DefaultTTL.
func New(client redis.UniversalClient, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// TTL returns the logical session lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Save stores a session under its session ID. The session's CreatedAt and
// ExpiresAt are stamped here so every stored record carries a consistent
// logical lifetime.
func (c *Cache) Save(ctx context.Context, session *types.MatchingSession) error {
	if session.SessionID == "" {
		return errors.New("session id cannot be empty")
	}

	now := time.Now().UTC()
	session.CreatedAt = now
	session.ExpiresAt = now.Add(c.ttl)

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+session.SessionID, payload, 2*c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", session.SessionID, err)
	}
	return nil
}

// Get retrieves a session by ID. Returns nil for a missing session and for
// a physically present but logically expired one.
func (c *Cache) Get(ctx context.Context, sessionID string) (*types.MatchingSession, error) {
	if sessionID == "" {
		return nil, errors.New("session id cannot be empty")
	}

	payload, err := c.client.Get(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}

	var session types.MatchingSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}

	if session.Expired(time.Now().UTC()) {
		return nil, nil
	}
	return &session, nil
}

// Delete removes a session.
func (c *Cache) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("session id cannot be empty")
	}
	if err := c.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}
