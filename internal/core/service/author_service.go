package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

type AuthorService struct {
	authors  ports.AuthorRepository
	sessions ports.SessionLoader
	logger   zerolog.Logger
}

func NewAuthorService(authors ports.AuthorRepository, sessions ports.SessionLoader, logger zerolog.Logger) *AuthorService {
	return &AuthorService{authors: authors, sessions: sessions, logger: logger}
}

// CreateProfile performs the author elevation step. The caller must already
// hold the author role and must not have a profile yet.
func (s *AuthorService) CreateProfile(ctx context.Context, principal domain.Principal, in ports.CreateAuthorInput) (*domain.AuthorProfile, error) {
	if principal.Role != domain.RoleAuthor {
		return nil, domain.ErrAuthorRoleRequired
	}

	_, err := s.authors.FindByUserID(ctx, principal.UserID)
	if err == nil {
		return nil, domain.ErrAuthorProfileExists
	}
	if !errors.Is(err, domain.ErrAuthorProfileNotFound) {
		return nil, fmt.Errorf("check author profile: %w", err)
	}

	author := &domain.AuthorProfile{
		ID:        uuid.NewString(),
		UserID:    principal.UserID,
		Bio:       in.Bio,
		Website:   in.Website,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.authors.Create(ctx, author); err != nil {
		return nil, fmt.Errorf("create author profile: %w", err)
	}

	// The cached principal still lacks the author id.
	s.sessions.Invalidate(ctx, principal.UserID)

	s.logger.Info().Str("user_id", principal.UserID).Str("author_id", author.ID).Msg("author profile created")
	return author, nil
}

func (s *AuthorService) GetProfile(ctx context.Context, principal domain.Principal) (*domain.AuthorProfile, error) {
	if principal.AuthorID == "" {
		return nil, domain.ErrAuthorProfileMissing
	}
	author, err := s.authors.FindByID(ctx, principal.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("get author profile: %w", err)
	}
	return author, nil
}
