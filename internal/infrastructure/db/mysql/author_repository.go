package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// AuthorRepository implements ports.AuthorRepository on MySQL.
type AuthorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) ports.AuthorRepository {
	return &AuthorRepository{db: db}
}

// FindByID loads the profile together with its owning user and the user's
// personal profile.
func (r *AuthorRepository) FindByID(ctx context.Context, id string) (*domain.AuthorProfile, error) {
	var rec authorRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAuthorProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	var owner userRecord
	err = r.db.WithContext(ctx).Preload("Profile").Where("id = ?", rec.UserID).Take(&owner).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	author := rec.toDomain()
	if err == nil {
		author.User = owner.toDomain()
	}
	return author, nil
}

func (r *AuthorRepository) FindByUserID(ctx context.Context, userID string) (*domain.AuthorProfile, error) {
	var rec authorRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAuthorProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func (r *AuthorRepository) Create(ctx context.Context, author *domain.AuthorProfile) error {
	err := r.db.WithContext(ctx).Create(authorFromDomain(author)).Error
	if _, ok := duplicateKey(err); ok {
		return domain.ErrAuthorProfileExists
	}
	return err
}
