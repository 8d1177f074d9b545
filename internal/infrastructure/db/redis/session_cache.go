package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

const (
	defaultSessionTTL = 5 * time.Minute
	generationTTL     = 24 * time.Hour
)

var errStaleGeneration = errors.New("session generation changed")

// SessionCache stores principal projections in Redis behind a circuit
// breaker. Key formats: session:<user_id> for the projection and
// session_gen:<user_id> for its invalidation counter.
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker
}

var _ ports.SessionCache = (*SessionCache)(nil)

// NewSessionCache wraps client. While the breaker is open every call fails
// immediately and callers fall back to the credential store.
func NewSessionCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *SessionCache {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	st := gobreaker.Settings{
		Name:        "session-cache",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
	return &SessionCache{
		client: client,
		ttl:    ttl,
		cb:     gobreaker.NewCircuitBreaker(st),
	}
}

// Get returns the cached principal, or (nil, nil) on a miss.
func (c *SessionCache) Get(ctx context.Context, userID string) (*domain.Principal, error) {
	val, err := c.cb.Execute(func() (interface{}, error) {
		res, err := c.client.Get(ctx, c.key(userID)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	if err != nil {
		return nil, fmt.Errorf("session cache get: %w", err)
	}
	if val == nil {
		return nil, nil
	}

	var p domain.Principal
	if err := json.Unmarshal(val.([]byte), &p); err != nil {
		return nil, fmt.Errorf("session cache decode: %w", err)
	}
	return &p, nil
}

// Generation returns the user's invalidation counter, 0 when none exists.
func (c *SessionCache) Generation(ctx context.Context, userID string) (int64, error) {
	val, err := c.cb.Execute(func() (interface{}, error) {
		gen, err := c.client.Get(ctx, c.genKey(userID)).Int64()
		if errors.Is(err, redis.Nil) {
			return int64(0), nil
		}
		return gen, err
	})
	if err != nil {
		return 0, fmt.Errorf("session cache generation: %w", err)
	}
	return val.(int64), nil
}

// SetIfGeneration writes p under WATCH on the generation key. A changed
// generation or a concurrent write to it skips the write without error.
func (c *SessionCache) SetIfGeneration(ctx context.Context, p domain.Principal, gen int64) (bool, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("session cache encode: %w", err)
	}

	genKey := c.genKey(p.UserID)
	val, err := c.cb.Execute(func() (interface{}, error) {
		err := c.client.Watch(ctx, func(tx *redis.Tx) error {
			cur, err := tx.Get(ctx, genKey).Int64()
			if errors.Is(err, redis.Nil) {
				cur, err = 0, nil
			}
			if err != nil {
				return err
			}
			if cur != gen {
				return errStaleGeneration
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, c.key(p.UserID), data, c.ttl)
				return nil
			})
			return err
		}, genKey)
		switch {
		case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
			return false, nil
		case err != nil:
			return nil, err
		}
		return true, nil
	})
	if err != nil {
		return false, fmt.Errorf("session cache set: %w", err)
	}
	return val.(bool), nil
}

// Invalidate bumps the generation and drops the entry in one MULTI block.
func (c *SessionCache) Invalidate(ctx context.Context, userID string) error {
	genKey := c.genKey(userID)
	_, err := c.cb.Execute(func() (interface{}, error) {
		_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Incr(ctx, genKey)
			pipe.Expire(ctx, genKey, c.genTTL())
			pipe.Del(ctx, c.key(userID))
			return nil
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("session cache invalidate: %w", err)
	}
	return nil
}

func (c *SessionCache) key(userID string) string {
	return "session:" + userID
}

func (c *SessionCache) genKey(userID string) string {
	return "session_gen:" + userID
}

// genTTL outlives any load that could have read the previous generation.
func (c *SessionCache) genTTL() time.Duration {
	if c.ttl > generationTTL {
		return 2 * c.ttl
	}
	return generationTTL
}
