package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// TagRepository implements ports.TagRepository on MySQL.
type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) ports.TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(ctx context.Context) ([]*domain.Tag, error) {
	var recs []tagRecord
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	return tagsToDomain(recs), nil
}

func (r *TagRepository) FindBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	var rec tagRecord
	err := r.db.WithContext(ctx).Where("slug = ?", slug).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func (r *TagRepository) FindBySlugs(ctx context.Context, slugs []string) ([]*domain.Tag, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var recs []tagRecord
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&recs).Error; err != nil {
		return nil, err
	}
	return tagsToDomain(recs), nil
}

func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	rec := tagRecord{ID: tag.ID, Name: tag.Name, Slug: tag.Slug, CreatedAt: tag.CreatedAt}
	err := r.db.WithContext(ctx).Create(&rec).Error
	if _, ok := duplicateKey(err); ok {
		return domain.ErrTagExists
	}
	return err
}

func tagsToDomain(recs []tagRecord) []*domain.Tag {
	out := make([]*domain.Tag, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out
}
