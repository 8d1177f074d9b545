package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

type TagService struct {
	tags   ports.TagRepository
	posts  ports.PostRepository
	logger zerolog.Logger
}

func NewTagService(tags ports.TagRepository, posts ports.PostRepository, logger zerolog.Logger) *TagService {
	return &TagService{tags: tags, posts: posts, logger: logger}
}

func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (s *TagService) Create(ctx context.Context, in ports.CreateTagInput) (*domain.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrTagNameRequired
	}
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if slug == "" {
		return nil, domain.ErrTagSlugRequired
	}

	tag := &domain.Tag{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Info().Str("tag", tag.Slug).Msg("tag created")
	return tag, nil
}

// ListPosts returns the published posts carrying the tag with slug.
func (s *TagService) ListPosts(ctx context.Context, slug string) ([]*domain.Post, error) {
	tag, err := s.tags.FindBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		return nil, fmt.Errorf("list tag posts: %w", err)
	}
	posts, err := s.posts.ListPublishedByTag(ctx, tag.Slug)
	if err != nil {
		return nil, fmt.Errorf("list tag posts: %w", err)
	}
	return posts, nil
}
