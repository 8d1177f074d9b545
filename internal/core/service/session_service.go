package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
	"github.com/inkwell/blog-api/internal/pkg/metrics"
)

const storeLoadTimeout = 5 * time.Second

// SessionService resolves principals through the cache, falling back to the
// credential store. A nil cache disables caching. Concurrent misses for the
// same user share one store query.
//
// A projection is written back only if no invalidation happened since the
// load started. When an invalidation cannot reach the cache, the user is
// served from the store until a later retry succeeds.
type SessionService struct {
	users ports.UserRepository
	cache ports.SessionCache
	group singleflight.Group
	log   zerolog.Logger

	mu    sync.Mutex
	stale map[string]struct{}
}

func NewSessionService(users ports.UserRepository, cache ports.SessionCache, log zerolog.Logger) *SessionService {
	return &SessionService{
		users: users,
		cache: cache,
		log:   log,
		stale: make(map[string]struct{}),
	}
}

func (s *SessionService) Load(ctx context.Context, userID string) (domain.Principal, error) {
	if s.cacheUsable(ctx, userID) {
		cached, err := s.cache.Get(ctx, userID)
		switch {
		case err != nil:
			metrics.SessionCacheLookupsTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Str("user_id", userID).Msg("session cache read failed, using store")
		case cached != nil:
			metrics.SessionCacheLookupsTotal.WithLabelValues("hit").Inc()
			return *cached, nil
		default:
			metrics.SessionCacheLookupsTotal.WithLabelValues("miss").Inc()
		}
	}

	v, err, _ := s.group.Do(userID, func() (any, error) {
		// Shared by every waiting caller, so no single request may cancel it.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeLoadTimeout)
		defer cancel()
		return s.loadFromStore(ctx, userID)
	})
	if err != nil {
		return domain.Principal{}, err
	}
	return v.(domain.Principal), nil
}

func (s *SessionService) loadFromStore(ctx context.Context, userID string) (domain.Principal, error) {
	gen, cacheable := s.generation(ctx, userID)

	p, err := s.users.FindPrincipal(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.Principal{}, domain.ErrSessionUserNotFound
	}
	if err != nil {
		return domain.Principal{}, fmt.Errorf("load session: %w", err)
	}

	if cacheable && !s.isStale(userID) {
		written, err := s.cache.SetIfGeneration(ctx, *p, gen)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("user_id", userID).Msg("session cache write failed")
		case !written:
			s.log.Debug().Str("user_id", userID).Msg("session invalidated during load, not cached")
		}
	}
	return *p, nil
}

// generation reads the invalidation counter a write-back must match. The
// second result is false when nothing should be cached.
func (s *SessionService) generation(ctx context.Context, userID string) (int64, bool) {
	if s.cache == nil || s.isStale(userID) {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("session cache generation read failed")
		return 0, false
	}
	return gen, true
}

// cacheUsable retries a pending invalidation before letting the cache serve
// userID again.
func (s *SessionService) cacheUsable(ctx context.Context, userID string) bool {
	if s.cache == nil {
		return false
	}
	if !s.isStale(userID) {
		return true
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		return false
	}
	s.markStale(userID, false)
	s.log.Info().Str("user_id", userID).Msg("pending session invalidation applied")
	return true
}

// Invalidate drops the cached principal so the next request reloads it.
func (s *SessionService) Invalidate(ctx context.Context, userID string) {
	// Callers arriving after this point must not join a query that may
	// predate the change.
	s.group.Forget(userID)

	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.markStale(userID, true)
		s.log.Error().Err(err).Str("user_id", userID).Msg("session cache invalidation failed, bypassing cache for user")
		return
	}
	s.markStale(userID, false)
}

func (s *SessionService) isStale(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.stale[userID]
	return ok
}

func (s *SessionService) markStale(userID string, stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stale {
		s.stale[userID] = struct{}{}
	} else {
		delete(s.stale, userID)
	}
}
