package mysql

import (
	"time"

	"github.com/inkwell/blog-api/internal/core/domain"
)

type userRecord struct {
	ID            string         `gorm:"type:char(36);primaryKey"`
	Name          string         `gorm:"type:varchar(100);not null"`
	Username      string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_users_username"`
	Email         string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	Password      string         `gorm:"type:varchar(255);not null"`
	Role          string         `gorm:"type:varchar(16);not null;default:user;index"`
	RefreshToken  *string        `gorm:"type:text"`
	Profile       *profileRecord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	AuthorProfile *authorRecord  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (userRecord) TableName() string { return "users" }

type profileRecord struct {
	ID        string   `gorm:"type:char(36);primaryKey"`
	UserID    string   `gorm:"type:char(36);not null;uniqueIndex"`
	Avatar    *string  `gorm:"type:varchar(512)"`
	Interests []string `gorm:"type:json;serializer:json"`
}

func (profileRecord) TableName() string { return "user_profiles" }

type authorRecord struct {
	ID        string       `gorm:"type:char(36);primaryKey"`
	UserID    string       `gorm:"type:char(36);not null;uniqueIndex:idx_author_profiles_user_id"`
	Bio       *string      `gorm:"type:text"`
	Website   *string      `gorm:"type:varchar(255)"`
	Posts     []postRecord `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (authorRecord) TableName() string { return "author_profiles" }

type postRecord struct {
	ID        string      `gorm:"type:char(36);primaryKey"`
	Title     string      `gorm:"type:varchar(255);not null"`
	Content   string      `gorm:"type:text;not null"`
	Published bool        `gorm:"not null;default:false;index"`
	AuthorID  string      `gorm:"type:char(36);not null;index"`
	Tags      []tagRecord `gorm:"many2many:post_tags;joinForeignKey:PostID;joinReferences:TagID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"index"`
	UpdatedAt time.Time
}

func (postRecord) TableName() string { return "posts" }

type tagRecord struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	Name      string `gorm:"type:varchar(100);not null;uniqueIndex:idx_tags_name"`
	Slug      string `gorm:"type:varchar(100);not null;uniqueIndex:idx_tags_slug"`
	CreatedAt time.Time
}

func (tagRecord) TableName() string { return "tags" }

// principalRow is the projection scanned by FindPrincipal.
type principalRow struct {
	UserID   string
	Role     string
	AuthorID *string
}

// ── record <-> domain ─────────────────────────────────────────────────────────

func userFromDomain(u *domain.User) *userRecord {
	return &userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		Password:     u.PasswordHash,
		Role:         string(u.Role),
		RefreshToken: u.RefreshToken,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *userRecord) toDomain() *domain.User {
	u := &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.Password,
		Role:         domain.Role(r.Role),
		RefreshToken: r.RefreshToken,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Profile != nil {
		u.Profile = r.Profile.toDomain()
	}
	if r.AuthorProfile != nil {
		u.AuthorProfile = r.AuthorProfile.toDomain()
	}
	return u
}

func (r *profileRecord) toDomain() *domain.UserProfile {
	interests := r.Interests
	if interests == nil {
		interests = []string{}
	}
	return &domain.UserProfile{
		ID:        r.ID,
		UserID:    r.UserID,
		Avatar:    r.Avatar,
		Interests: interests,
	}
}

func authorFromDomain(a *domain.AuthorProfile) *authorRecord {
	return &authorRecord{
		ID:        a.ID,
		UserID:    a.UserID,
		Bio:       a.Bio,
		Website:   a.Website,
		CreatedAt: a.CreatedAt,
	}
}

func (r *authorRecord) toDomain() *domain.AuthorProfile {
	return &domain.AuthorProfile{
		ID:        r.ID,
		UserID:    r.UserID,
		Bio:       r.Bio,
		Website:   r.Website,
		CreatedAt: r.CreatedAt,
	}
}

func postFromDomain(p *domain.Post, tags []tagRecord) *postRecord {
	return &postRecord{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		AuthorID:  p.AuthorID,
		Tags:      tags,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *postRecord) toDomain() *domain.Post {
	slugs := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		slugs = append(slugs, t.Slug)
	}
	return &domain.Post{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Published: r.Published,
		AuthorID:  r.AuthorID,
		Tags:      slugs,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func postsToDomain(recs []postRecord) []*domain.Post {
	out := make([]*domain.Post, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out
}

func (r *tagRecord) toDomain() *domain.Tag {
	return &domain.Tag{
		ID:        r.ID,
		Name:      r.Name,
		Slug:      r.Slug,
		CreatedAt: r.CreatedAt,
	}
}
