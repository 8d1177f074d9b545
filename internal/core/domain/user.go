package domain

import (
	"strings"
	"time"
)

// Role is the single authorization role a user holds.
type Role string

const (
	RoleUser   Role = "user"
	RoleAuthor Role = "author"
	RoleAdmin  Role = "admin"
)

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAuthor, RoleAdmin:
		return true
	}
	return false
}

// User models an account. PasswordHash and RefreshToken never leave the
// server in JSON form.
type User struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Username      string         `json:"username"`
	Email         string         `json:"email"`
	PasswordHash  string         `json:"-"`
	Role          Role           `json:"role"`
	RefreshToken  *string        `json:"-"`
	Profile       *UserProfile   `json:"profile,omitempty"`
	AuthorProfile *AuthorProfile `json:"authorProfile,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// UserProfile holds optional personal details attached to a user.
type UserProfile struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Avatar    *string  `json:"avatar"`
	Interests []string `json:"interests"`
}

// AuthorProfile is the elevation record an author needs before publishing.
type AuthorProfile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Bio       *string   `json:"bio"`
	Website   *string   `json:"website"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Principal is the minimal identity attached to an authenticated request.
type Principal struct {
	UserID   string `json:"id"`
	Role     Role   `json:"role"`
	AuthorID string `json:"authorId,omitempty"`
}

// IsAuthor reports whether the principal holds the author role and has
// completed author-profile creation.
func (p Principal) IsAuthor() bool {
	return p.Role == RoleAuthor && p.AuthorID != ""
}

// IsAdmin reports whether the principal is an administrator.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// ProfilePatch lists the profile attributes a caller may change. Nil fields
// are left untouched.
type ProfilePatch struct {
	Avatar    *string
	Interests *[]string
}

// UserPatch is a partial update of a user record. Nil fields are left
// untouched; PasswordHash is already hashed.
type UserPatch struct {
	Name         *string
	PasswordHash *string
	Profile      *ProfilePatch
}

// Empty reports whether the patch carries no changes.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.PasswordHash == nil && p.Profile == nil
}
