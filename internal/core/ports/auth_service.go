package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name            string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// UpdateUserInput is a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Password *string
	Profile  *domain.ProfilePatch
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// RefreshResult is returned by a successful access-token refresh.
type RefreshResult struct {
	AccessToken string
	UserID      string
}

// AuthService orchestrates the credential store and token service.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Logout clears the stored refresh token of principal when refreshToken
	// is valid and still current.
	Logout(ctx context.Context, principal domain.Principal, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
	UpdateUser(ctx context.Context, userID string, in UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context, principal domain.Principal) ([]*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	ChangeRole(ctx context.Context, principal domain.Principal, userID string, role domain.Role) error
}
