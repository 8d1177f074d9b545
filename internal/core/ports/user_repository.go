package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// UserRepository is the credential store. Lookups return
// domain.ErrUserNotFound when no record matches.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindPrincipal loads only {id, role, author profile id}.
	FindPrincipal(ctx context.Context, id string) (*domain.Principal, error)
	List(ctx context.Context) ([]*domain.User, error)

	// Create inserts a new user. Uniqueness is enforced by the store itself;
	// violations surface as domain.ErrUsernameTaken or domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) error
	// UpdateRefreshToken overwrites the stored refresh token; nil clears it.
	UpdateRefreshToken(ctx context.Context, id string, token *string) error
	// Update applies every non-nil field of patch and upserts the profile.
	Update(ctx context.Context, id string, patch domain.UserPatch) error
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	// Delete removes the user; dependent profiles are removed by cascade.
	Delete(ctx context.Context, id string) error
}
