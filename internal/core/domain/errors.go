package domain

import "errors"

// Input errors.
var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrInvalidRole      = errors.New("invalid role")
	ErrTitleRequired    = errors.New("title is required")
	ErrContentRequired  = errors.New("empty post content")
	ErrTagNameRequired  = errors.New("tag name cannot be empty")
	ErrTagSlugRequired  = errors.New("slug cannot be empty")
)

// Uniqueness violations.
var (
	ErrUsernameTaken       = errors.New("username already taken")
	ErrEmailTaken          = errors.New("email already registered")
	ErrAuthorProfileExists = errors.New("author profile already exists")
	ErrTagExists           = errors.New("a tag with this name or slug already exists")
)

// Authentication failures.
var (
	ErrUsernameNotFound    = errors.New("username not found")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrTokenMissing        = errors.New("access denied, token missing")
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenMalformed      = errors.New("token malformed")
	ErrTokenSignature      = errors.New("token signature invalid")
	ErrRefreshTokenMissing = errors.New("no refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrRefreshTokenInvalid = errors.New("invalid refresh token")
	ErrSessionUserNotFound = errors.New("user not found")
	ErrUnauthenticated     = errors.New("missing authentication")
)

// Authorization failures.
var (
	ErrForbidden            = errors.New("access forbidden")
	ErrAdminRequired        = errors.New("only admins have access to this")
	ErrAuthorRoleRequired   = errors.New("author access required")
	ErrAuthorProfileMissing = errors.New("author role present but no author profile, create one first")
)

// Lookup failures.
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrAuthorProfileNotFound = errors.New("author profile not found")
	ErrPostNotFound          = errors.New("post not found")
	ErrTagNotFound           = errors.New("tag not found")
)
