package ports

import "github.com/inkwell/blog-api/internal/core/domain"

// TokenService issues and verifies signed, time-limited tokens bound to a
// user id.
type TokenService interface {
	IssueAccessToken(userID string) (string, error)
	IssueRefreshToken(userID string) (string, error)
	// Verify returns the user id carried by token. Failures are one of
	// domain.ErrTokenExpired, domain.ErrTokenSignature or domain.ErrTokenMalformed.
	Verify(token string, kind domain.TokenKind) (string, error)
}

// PasswordHasher hashes and compares passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns domain.ErrInvalidPassword on mismatch.
	Compare(hash, password string) error
}
