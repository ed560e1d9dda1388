package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked_access_token:"

// RevocationRegistry tracks access-token ids that were logged out before
// their natural expiry. Every authenticated request consults it after the
// signature and expiry checks pass.
type RevocationRegistry interface {
	Revoke(ctx context.Context, tokenID string) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// memoryRevocationRegistry never evicts: entries live until the process
// restarts. Tokens expire on their own, so stale entries are harmless, but
// the set grows for the process lifetime. Known limitation of the
// single-instance deployment.
type memoryRevocationRegistry struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

func NewMemoryRevocationRegistry() RevocationRegistry {
	return &memoryRevocationRegistry{revoked: make(map[string]struct{})}
}

func (r *memoryRevocationRegistry) Revoke(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[tokenID] = struct{}{}
	return nil
}

func (r *memoryRevocationRegistry) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.revoked[tokenID]
	return ok, nil
}

// redisRevocationRegistry keys entries by token id with a TTL matching the
// access-token lifetime, after which the token is expired anyway.
type redisRevocationRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRevocationRegistry(client *redis.Client, ttl time.Duration) RevocationRegistry {
	return &redisRevocationRegistry{client: client, ttl: ttl}
}

func (r *redisRevocationRegistry) Revoke(ctx context.Context, tokenID string) error {
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, "1", r.ttl).Err()
}

func (r *redisRevocationRegistry) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
