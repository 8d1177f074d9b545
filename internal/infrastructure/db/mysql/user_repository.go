package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// UserRepository implements ports.UserRepository on MySQL.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("AuthorProfile").
		Where(query, arg).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

// FindPrincipal reads only the columns the auth guards need.
func (r *UserRepository) FindPrincipal(ctx context.Context, id string) (*domain.Principal, error) {
	var row principalRow
	err := principalQuery(r.db.WithContext(ctx), id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	p := &domain.Principal{UserID: row.UserID, Role: domain.Role(row.Role)}
	if row.AuthorID != nil {
		p.AuthorID = *row.AuthorID
	}
	return p, nil
}

func principalQuery(db *gorm.DB, id string) *gorm.DB {
	return db.
		Table("users").
		Select("users.id AS user_id, users.role AS role, author_profiles.id AS author_id").
		Joins("LEFT JOIN author_profiles ON author_profiles.user_id = users.id").
		Where("users.id = ?", id)
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var recs []userRecord
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(recs))
	for i := range recs {
		users = append(users, recs[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(userFromDomain(user)).Error
	if key, ok := duplicateKey(err); ok {
		if key == "idx_users_email" {
			return domain.ErrEmailTaken
		}
		return domain.ErrUsernameTaken
	}
	return err
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id string, token *string) error {
	return r.db.WithContext(ctx).
		Model(&userRecord{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}

// Update applies the patch in one transaction. MySQL reports zero affected
// rows for no-op updates, so existence is checked explicitly.
func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, id); err != nil {
			return err
		}

		updates := map[string]any{}
		if patch.Name != nil {
			updates["name"] = *patch.Name
		}
		if patch.PasswordHash != nil {
			updates["password"] = *patch.PasswordHash
		}
		if len(updates) > 0 {
			if err := tx.Model(&userRecord{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return fmt.Errorf("update user: %w", err)
			}
		}

		if patch.Profile != nil {
			return upsertProfile(tx, id, *patch.Profile)
		}
		return nil
	})
}

func upsertProfile(tx *gorm.DB, userID string, patch domain.ProfilePatch) error {
	var rec profileRecord
	err := tx.Where("user_id = ?", userID).Take(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = profileRecord{ID: uuid.NewString(), UserID: userID}
	case err != nil:
		return fmt.Errorf("load profile: %w", err)
	}

	if patch.Avatar != nil {
		rec.Avatar = patch.Avatar
	}
	if patch.Interests != nil {
		rec.Interests = *patch.Interests
	}
	if err := tx.Save(&rec).Error; err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, id); err != nil {
			return err
		}
		return tx.Model(&userRecord{}).Where("id = ?", id).Update("role", string(role)).Error
	})
}

// Delete removes the user. Profiles, author profiles, posts and their tag
// links go with it through ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func ensureUser(tx *gorm.DB, id string) error {
	var rec userRecord
	err := tx.Select("id").Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	return err
}
