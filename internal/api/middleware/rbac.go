package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after VerifyToken.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[p.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireAdmin passes only administrators.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if !p.IsAdmin() {
				return domain.ErrAdminRequired
			}
			return next(c)
		}
	}
}

// RequireAuthor passes only callers holding the author role AND an author
// profile. A user can be granted the role before creating the profile.
func RequireAuthor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if p.Role != domain.RoleAuthor {
				return domain.ErrAuthorRoleRequired
			}
			if p.AuthorID == "" {
				return domain.ErrAuthorProfileMissing
			}
			return next(c)
		}
	}
}
