package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevokeIsSticky(t *testing.T) {
	registry := NewMemoryRevocationRegistry()
	ctx := context.Background()

	revoked, err := registry.IsRevoked(ctx, "token-a")
	assert.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, registry.Revoke(ctx, "token-a"))

	revoked, err = registry.IsRevoked(ctx, "token-a")
	assert.NoError(t, err)
	assert.True(t, revoked)

	// Revoking again is idempotent.
	assert.NoError(t, registry.Revoke(ctx, "token-a"))
	revoked, err = registry.IsRevoked(ctx, "token-a")
	assert.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevocationIsPerToken(t *testing.T) {
	registry := NewMemoryRevocationRegistry()
	ctx := context.Background()

	assert.NoError(t, registry.Revoke(ctx, "token-a"))

	revoked, err := registry.IsRevoked(ctx, "token-b")
	assert.NoError(t, err)
	assert.False(t, revoked)
}
