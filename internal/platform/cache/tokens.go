package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "easemw:token:"

// TokenCache records issued session tokens so bearer verification can skip
// signature checks for recently issued tokens. Entries carry a TTL purely
// for eviction; expiry here never invalidates the token itself.
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenCache constructs a TokenCache with the given eviction TTL.
func NewTokenCache(client *redis.Client, ttl time.Duration) *TokenCache {
	return &TokenCache{client: client, ttl: ttl}
}

type tokenEntry struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Put records an issued token with its claims.
func (c *TokenCache) Put(ctx context.Context, token, username, email string) error {
	payload, err := json.Marshal(tokenEntry{Username: username, Email: email})
	if err != nil {
		return fmt.Errorf("platform/cache: marshal entry: %w", err)
	}
	if err := c.client.Set(ctx, tokenKeyPrefix+token, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("platform/cache: set token: %w", err)
	}
	return nil
}

// Get resolves a token to its claims. ok is false on a cache miss.
func (c *TokenCache) Get(ctx context.Context, token string) (username, email string, ok bool, err error) {
	payload, err := c.client.Get(ctx, tokenKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", "", false, nil
		}
		return "", "", false, fmt.Errorf("platform/cache: get token: %w", err)
	}
	var entry tokenEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return "", "", false, fmt.Errorf("platform/cache: decode entry: %w", err)
	}
	return entry.Username, entry.Email, true, nil
}
