package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
	"github.com/inkwell/blog-api/internal/pkg/metrics"
)

// AuthService implements registration, login and the token lifecycle.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.TokenService
	hasher   ports.PasswordHasher
	sessions ports.SessionLoader
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenService,
	hasher ports.PasswordHasher,
	sessions ports.SessionLoader,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		sessions: sessions,
		log:      log,
	}
}

// Register creates a user with the default role. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Password != in.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	// The probes give precise errors; the unique indexes in the store are
	// what actually guarantees uniqueness under concurrent registrations.
	if err := s.ensureAvailable(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.UsersRegisteredTotal.Inc()
	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("check username: %w", err)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

// Login verifies credentials, issues a token pair and stores the refresh
// token on the user, replacing any previous one.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		metrics.LoginsTotal.WithLabelValues("username_not_found").Inc()
		return nil, domain.ErrUsernameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, domain.ErrInvalidPassword) {
			metrics.LoginsTotal.WithLabelValues("invalid_password").Inc()
		}
		return nil, err
	}

	access, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, &refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	user.RefreshToken = &refresh

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}

// Logout clears the stored refresh token. Any verification failure leaves
// the stored value untouched.
func (s *AuthService) Logout(ctx context.Context, principal domain.Principal, refreshToken string) error {
	user, err := s.currentRefreshOwner(ctx, refreshToken)
	if errors.Is(err, domain.ErrRefreshTokenExpired) {
		return domain.ErrRefreshTokenInvalid
	}
	if err != nil {
		return err
	}
	if user.ID != principal.UserID {
		return domain.ErrRefreshTokenInvalid
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	s.log.Info().Str("user_id", user.ID).Msg("user logged out")
	return nil
}

// Refresh exchanges a current refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.RefreshResult, error) {
	user, err := s.currentRefreshOwner(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.RefreshResult{AccessToken: access, UserID: user.ID}, nil
}

// currentRefreshOwner verifies refreshToken and requires it to equal the
// value stored on its user, so cleared or replaced tokens stop working
// before they expire.
func (s *AuthService) currentRefreshOwner(ctx context.Context, refreshToken string) (*domain.User, error) {
	userID, err := s.tokens.Verify(refreshToken, domain.RefreshToken)
	if errors.Is(err, domain.ErrTokenExpired) {
		return nil, domain.ErrRefreshTokenExpired
	}
	if err != nil {
		return nil, domain.ErrRefreshTokenInvalid
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrRefreshTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("load refresh token owner: %w", err)
	}

	if user.RefreshToken == nil || subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(refreshToken)) != 1 {
		s.log.Warn().Str("user_id", user.ID).Msg("refresh token does not match stored value")
		return nil, domain.ErrRefreshTokenInvalid
	}
	return user, nil
}

// UpdateUser applies a partial update and returns the refreshed record.
func (s *AuthService) UpdateUser(ctx context.Context, userID string, in ports.UpdateUserInput) (*domain.User, error) {
	patch := domain.UserPatch{
		Name:    in.Name,
		Profile: in.Profile,
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	if !patch.Empty() {
		if err := s.users.Update(ctx, userID, patch); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	return s.GetUser(ctx, userID)
}

// DeleteUser removes the user's own account.
func (s *AuthService) DeleteUser(ctx context.Context, userID string) error {
	err := s.users.Delete(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrSessionUserNotFound
	}
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.sessions.Invalidate(ctx, userID)
	s.log.Info().Str("user_id", userID).Msg("user deleted")
	return nil
}

// ListUsers returns every user. The admin check repeats the route guard.
func (s *AuthService) ListUsers(ctx context.Context, principal domain.Principal) ([]*domain.User, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ChangeRole assigns a new role to a user. Admin only.
func (s *AuthService) ChangeRole(ctx context.Context, principal domain.Principal, userID string, role domain.Role) error {
	if !principal.IsAdmin() {
		return domain.ErrAdminRequired
	}
	if !role.Valid() {
		return domain.ErrInvalidRole
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		return fmt.Errorf("change role: %w", err)
	}
	s.sessions.Invalidate(ctx, userID)
	s.log.Info().Str("user_id", userID).Str("role", string(role)).Str("by", principal.UserID).Msg("role changed")
	return nil
}
