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

type PostService struct {
	posts  ports.PostRepository
	tags   ports.TagRepository
	logger zerolog.Logger
}

func NewPostService(posts ports.PostRepository, tags ports.TagRepository, logger zerolog.Logger) *PostService {
	return &PostService{posts: posts, tags: tags, logger: logger}
}

func (s *PostService) ListPublished(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.posts.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) ListAll(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) ListByAuthor(ctx context.Context, principal domain.Principal) ([]*domain.Post, error) {
	if !principal.IsAuthor() {
		return nil, domain.ErrAuthorProfileMissing
	}
	posts, err := s.posts.ListByAuthor(ctx, principal.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("list author posts: %w", err)
	}
	return posts, nil
}

// Create stores an unpublished post owned by the caller's author profile.
func (s *PostService) Create(ctx context.Context, principal domain.Principal, in ports.CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, domain.ErrContentRequired
	}
	if !principal.IsAuthor() {
		return nil, domain.ErrAuthorProfileMissing
	}

	slugs := normalizeSlugs(in.Tags)
	if err := s.ensureTagsExist(ctx, slugs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &domain.Post{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   in.Content,
		AuthorID:  principal.AuthorID,
		Tags:      slugs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Msg("failed to create post")
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Info().Str("post_id", post.ID).Str("author_id", post.AuthorID).Msg("post created")
	return post, nil
}

// Publish marks the caller's own post as published. Publishing twice is a
// no-op.
func (s *PostService) Publish(ctx context.Context, principal domain.Principal, postID string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("publish post: %w", err)
	}
	if post.AuthorID != principal.AuthorID {
		return nil, domain.ErrForbidden
	}
	if post.Published {
		return post, nil
	}

	if err := s.posts.SetPublished(ctx, post.ID, true); err != nil {
		return nil, fmt.Errorf("publish post: %w", err)
	}
	post.Published = true
	s.logger.Info().Str("post_id", post.ID).Msg("post published")
	return post, nil
}

func (s *PostService) ensureTagsExist(ctx context.Context, slugs []string) error {
	if len(slugs) == 0 {
		return nil
	}
	found, err := s.tags.FindBySlugs(ctx, slugs)
	if err != nil {
		return fmt.Errorf("resolve tags: %w", err)
	}
	if len(found) == len(slugs) {
		return nil
	}

	known := make(map[string]struct{}, len(found))
	for _, t := range found {
		known[t.Slug] = struct{}{}
	}
	for _, slug := range slugs {
		if _, ok := known[slug]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrTagNotFound, slug)
		}
	}
	return nil
}

// normalizeSlugs lower-cases, trims and de-duplicates slugs, keeping order.
func normalizeSlugs(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		slug := strings.ToLower(strings.TrimSpace(r))
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	return out
}
