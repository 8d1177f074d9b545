package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/pkg/metrics"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenConfig holds the signing material and lifetimes of both token kinds.
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
	Issuer        string
}

type tokenClaims struct {
	UserID string           `json:"userId"`
	Kind   domain.TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 JWTs. It is stateless.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &TokenService{cfg: cfg, now: time.Now}
}

// NewTokenServiceWithClock is NewTokenService with an injected clock.
func NewTokenServiceWithClock(cfg TokenConfig, now func() time.Time) *TokenService {
	s := NewTokenService(cfg)
	s.now = now
	return s
}

// RefreshTTL is the refresh token lifetime, also used as the cookie max-age.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.cfg.RefreshTTL
}

func (s *TokenService) IssueAccessToken(userID string) (string, error) {
	return s.issue(userID, domain.AccessToken)
}

func (s *TokenService) IssueRefreshToken(userID string) (string, error) {
	return s.issue(userID, domain.RefreshToken)
}

func (s *TokenService) issue(userID string, kind domain.TokenKind) (string, error) {
	secret, ttl := s.params(kind)
	now := s.now()

	// jti keeps two tokens issued within the same second distinct.
	claims := tokenClaims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(kind)).Inc()
	return signed, nil
}

// Verify checks signature, expiry and kind, returning the bound user id.
func (s *TokenService) Verify(token string, kind domain.TokenKind) (string, error) {
	secret, _ := s.params(kind)

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		verr := classifyTokenError(err)
		metrics.TokenVerificationsTotal.WithLabelValues(string(kind), verificationResult(verr)).Inc()
		return "", verr
	}

	if claims.Kind != kind || claims.UserID == "" {
		metrics.TokenVerificationsTotal.WithLabelValues(string(kind), "invalid").Inc()
		return "", domain.ErrTokenMalformed
	}

	metrics.TokenVerificationsTotal.WithLabelValues(string(kind), "ok").Inc()
	return claims.UserID, nil
}

func (s *TokenService) params(kind domain.TokenKind) ([]byte, time.Duration) {
	if kind == domain.RefreshToken {
		return []byte(s.cfg.RefreshSecret), s.cfg.RefreshTTL
	}
	return []byte(s.cfg.AccessSecret), s.cfg.AccessTTL
}

// classifyTokenError maps jwt parser errors onto the domain failure kinds.
// The parser checks the signature before claims, so a tampered expired token
// is reported as a signature failure.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrTokenSignature
	default:
		return fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
}

func verificationResult(err error) string {
	if errors.Is(err, domain.ErrTokenExpired) {
		return "expired"
	}
	return "invalid"
}
