package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// unreachableClient points at a closed local port so every command fails fast.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSessionCache_Key(t *testing.T) {
	c := NewSessionCache(unreachableClient(t), 0, zerolog.Nop())
	assert.Equal(t, "session:u1", c.key("u1"))
	assert.Equal(t, "session_gen:u1", c.genKey("u1"))
	assert.Equal(t, defaultSessionTTL, c.ttl)
	assert.Equal(t, generationTTL, c.genTTL())

	long := NewSessionCache(unreachableClient(t), 48*time.Hour, zerolog.Nop())
	assert.Equal(t, 96*time.Hour, long.genTTL())
}

func TestSessionCache_ConditionalWriteFailsWhenUnreachable(t *testing.T) {
	c := NewSessionCache(unreachableClient(t), time.Minute, zerolog.Nop())
	ctx := context.Background()

	gen, err := c.Generation(ctx, "u1")
	require.Error(t, err)
	assert.Zero(t, gen)

	written, err := c.SetIfGeneration(ctx, domain.Principal{UserID: "u1", Role: domain.RoleUser}, 0)
	require.Error(t, err)
	assert.False(t, written)
}

func TestSessionCache_BreakerOpensOnRepeatedFailures(t *testing.T) {
	c := NewSessionCache(unreachableClient(t), time.Minute, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		p, err := c.Get(ctx, "u1")
		require.Error(t, err)
		assert.Nil(t, p)
	}
	assert.Equal(t, gobreaker.StateOpen, c.cb.State())

	_, err := c.Get(ctx, "u1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	assert.ErrorIs(t, c.Invalidate(ctx, "u1"), gobreaker.ErrOpenState)
}
