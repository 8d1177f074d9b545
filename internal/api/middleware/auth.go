package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

const principalKey = "principal"

// VerifyToken authenticates the bearer access token and attaches the
// caller's principal to the context. The user is looked up on every request,
// so deleting an account revokes its outstanding access tokens.
func VerifyToken(tokens ports.TokenService, sessions ports.SessionLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return domain.ErrTokenMissing
			}

			userID, err := tokens.Verify(raw, domain.AccessToken)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					return domain.ErrTokenExpired
				}
				return domain.ErrTokenMalformed
			}

			principal, err := sessions.Load(c.Request().Context(), userID)
			if err != nil {
				return err
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal attached by VerifyToken.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok && p.UserID != ""
}

// WithPrincipal attaches p to c the way VerifyToken does.
func WithPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
