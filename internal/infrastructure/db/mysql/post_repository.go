package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// PostRepository implements ports.PostRepository on MySQL.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) ports.PostRepository {
	return &PostRepository{db: db}
}

// Create inserts the post and its post_tags links. Tags are never created
// here; every slug must already exist.
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tags []tagRecord
		if len(post.Tags) > 0 {
			if err := tx.Where("slug IN ?", post.Tags).Find(&tags).Error; err != nil {
				return err
			}
			if len(tags) != len(post.Tags) {
				return domain.ErrTagNotFound
			}
		}
		return tx.Omit("Tags.*").Create(postFromDomain(post, tags)).Error
	})
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	var rec postRecord
	err := r.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func (r *PostRepository) SetPublished(ctx context.Context, id string, published bool) error {
	return r.db.WithContext(ctx).
		Model(&postRecord{}).
		Where("id = ?", id).
		Update("published", published).Error
}

func (r *PostRepository) ListAll(ctx context.Context) ([]*domain.Post, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *PostRepository) ListPublished(ctx context.Context) ([]*domain.Post, error) {
	return r.list(r.db.WithContext(ctx).Where("published = ?", true))
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	return r.list(r.db.WithContext(ctx).Where("author_id = ?", authorID))
}

func (r *PostRepository) ListPublishedByTag(ctx context.Context, slug string) ([]*domain.Post, error) {
	return r.list(publishedByTag(r.db.WithContext(ctx), slug))
}

func publishedByTag(db *gorm.DB, slug string) *gorm.DB {
	return db.
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("tags.slug = ? AND posts.published = ?", slug, true)
}

func (r *PostRepository) list(q *gorm.DB) ([]*domain.Post, error) {
	var recs []postRecord
	if err := q.Preload("Tags").Order("posts.created_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	return postsToDomain(recs), nil
}
