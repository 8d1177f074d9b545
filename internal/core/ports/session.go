package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// SessionCache stores principal projections keyed by user id. A miss is
// reported as (nil, nil).
//
// Each user has a generation counter that Invalidate bumps. A loader reads
// the generation before querying the store and writes back with
// SetIfGeneration, so a projection loaded before an invalidation is never
// cached after it.
type SessionCache interface {
	Get(ctx context.Context, userID string) (*domain.Principal, error)
	Generation(ctx context.Context, userID string) (int64, error)
	// SetIfGeneration stores p only while the user's generation still equals
	// gen. It reports whether the entry was written.
	SetIfGeneration(ctx context.Context, p domain.Principal, gen int64) (bool, error)
	Invalidate(ctx context.Context, userID string) error
}

// SessionLoader resolves the principal behind a verified access token.
type SessionLoader interface {
	// Load returns domain.ErrSessionUserNotFound when the user no longer exists.
	Load(ctx context.Context, userID string) (domain.Principal, error)
	Invalidate(ctx context.Context, userID string)
}
