package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// CreateAuthorInput carries the optional author profile fields.
type CreateAuthorInput struct {
	Bio     *string
	Website *string
}

// CreatePostInput carries a new post.
type CreatePostInput struct {
	Title   string
	Content string
	Tags    []string // slugs
}

// CreateTagInput carries a new tag.
type CreateTagInput struct {
	Name string
	Slug string
}

// AuthorService handles the author elevation step.
type AuthorService interface {
	CreateProfile(ctx context.Context, principal domain.Principal, in CreateAuthorInput) (*domain.AuthorProfile, error)
	GetProfile(ctx context.Context, principal domain.Principal) (*domain.AuthorProfile, error)
}

// PostService defines use-case operations for posts.
type PostService interface {
	ListPublished(ctx context.Context) ([]*domain.Post, error)
	ListAll(ctx context.Context) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, principal domain.Principal) ([]*domain.Post, error)
	Create(ctx context.Context, principal domain.Principal, in CreatePostInput) (*domain.Post, error)
	Publish(ctx context.Context, principal domain.Principal, postID string) (*domain.Post, error)
}

// TagService defines use-case operations for tags.
type TagService interface {
	List(ctx context.Context) ([]*domain.Tag, error)
	Create(ctx context.Context, in CreateTagInput) (*domain.Tag, error)
	ListPosts(ctx context.Context, slug string) ([]*domain.Post, error)
}
