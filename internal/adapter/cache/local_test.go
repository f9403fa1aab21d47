package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestCache(t *testing.T) (*LocalCache, *time.Time) {
	t.Helper()
	c := NewLocalCache(time.Hour, zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })
	now := time.Date(2024, 4, 14, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestLocalCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, "nlu:like", `{"intent":"intent_like"}`, 0))
	val, err := c.Get(ctx, "nlu:like")
	require.NoError(t, err)
	assert.Equal(t, `{"intent":"intent_like"}`, val)

	require.NoError(t, c.Delete(ctx, "nlu:like"))
	_, err = c.Get(ctx, "nlu:like")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestLocalCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, now := newTestCache(t)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	*now = now.Add(59 * time.Second)
	_, err := c.Get(ctx, "k")
	require.NoError(t, err)

	*now = now.Add(time.Second)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	c.cleanup()
	assert.Zero(t, c.Len())
}

func TestLocalCache_CloseTwice(t *testing.T) {
	c := NewLocalCache(time.Millisecond, zap.NewNop())
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
