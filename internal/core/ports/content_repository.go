package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// AuthorRepository persists author profiles.
type AuthorRepository interface {
	// FindByID returns the profile with its owning user and user profile.
	FindByID(ctx context.Context, id string) (*domain.AuthorProfile, error)
	FindByUserID(ctx context.Context, userID string) (*domain.AuthorProfile, error)
	Create(ctx context.Context, author *domain.AuthorProfile) error
}

// PostRepository persists posts. Lists are ordered newest first.
type PostRepository interface {
	// Create inserts the post and links it to the tags named by post.Tags
	// (slugs). Callers resolve the slugs beforehand.
	Create(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	SetPublished(ctx context.Context, id string, published bool) error
	ListAll(ctx context.Context) ([]*domain.Post, error)
	ListPublished(ctx context.Context) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
	ListPublishedByTag(ctx context.Context, slug string) ([]*domain.Post, error)
}

// TagRepository persists tags.
type TagRepository interface {
	List(ctx context.Context) ([]*domain.Tag, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]*domain.Tag, error)
	// Create returns domain.ErrTagExists on a name or slug collision.
	Create(ctx context.Context, tag *domain.Tag) error
}
