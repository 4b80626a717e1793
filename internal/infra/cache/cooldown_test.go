package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"ministry/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestMemoryCooldown(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := newMemoryCooldown(func() time.Time { return now })
	ctx := context.Background()

	ok, err := store.Acquire(ctx, "otp:a@example.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Acquire(ctx, "otp:a@example.com", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Acquire(ctx, "otp:b@example.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, err = store.Acquire(ctx, "otp:a@example.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewRedisClientWithoutConfigIsNil(t *testing.T) {
	client := NewRedisClient(Params{
		Lc:     fxtest.NewLifecycle(t),
		Config: &config.Config{},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	assert.Nil(t, client)
	assert.IsType(t, &memoryCooldown{}, NewCooldownStore(client))
}
