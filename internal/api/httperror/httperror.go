// Package httperror renders every error returned by a handler or middleware
// as the API's JSON error envelope.
package httperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// Response is the canonical error envelope for all API errors.
type Response struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type mapping struct {
	target error
	status int
	code   string
}

// mappings is checked in order with errors.Is; the first match wins.
var mappings = []mapping{
	// 400
	{domain.ErrPasswordMismatch, http.StatusBadRequest, "password_mismatch"},
	{domain.ErrPasswordTooLong, http.StatusBadRequest, "password_too_long"},
	{domain.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
	{domain.ErrTitleRequired, http.StatusBadRequest, "title_required"},
	{domain.ErrContentRequired, http.StatusBadRequest, "content_required"},
	{domain.ErrTagNameRequired, http.StatusBadRequest, "tag_name_required"},
	{domain.ErrTagSlugRequired, http.StatusBadRequest, "tag_slug_required"},

	// 401
	{domain.ErrTokenMissing, http.StatusUnauthorized, "token_missing"},
	{domain.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
	{domain.ErrTokenSignature, http.StatusUnauthorized, "token_invalid"},
	{domain.ErrTokenMalformed, http.StatusUnauthorized, "token_invalid"},
	{domain.ErrSessionUserNotFound, http.StatusUnauthorized, "user_not_found"},
	{domain.ErrUsernameNotFound, http.StatusUnauthorized, "username_not_found"},
	{domain.ErrRefreshTokenMissing, http.StatusUnauthorized, "refresh_token_missing"},
	{domain.ErrRefreshTokenExpired, http.StatusUnauthorized, "refresh_token_expired"},
	{domain.ErrRefreshTokenInvalid, http.StatusUnauthorized, "refresh_token_invalid"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},

	// 403
	{domain.ErrInvalidPassword, http.StatusForbidden, "invalid_password"},
	{domain.ErrAdminRequired, http.StatusForbidden, "admin_required"},
	{domain.ErrAuthorRoleRequired, http.StatusForbidden, "author_role_required"},
	{domain.ErrAuthorProfileMissing, http.StatusForbidden, "author_profile_missing"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},

	// 404
	{domain.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{domain.ErrAuthorProfileNotFound, http.StatusNotFound, "author_profile_not_found"},
	{domain.ErrPostNotFound, http.StatusNotFound, "post_not_found"},
	{domain.ErrTagNotFound, http.StatusNotFound, "tag_not_found"},

	// 409
	{domain.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{domain.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{domain.ErrAuthorProfileExists, http.StatusConflict, "author_profile_exists"},
	{domain.ErrTagExists, http.StatusConflict, "tag_exists"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and machine code.
//   - Passes *echo.HTTPError through (bind failures, validation, router 404/405).
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := Resolve(err)
		if status == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}

// Resolve maps err to its status code and envelope.
func Resolve(err error) (int, Response) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Code >= http.StatusInternalServerError {
			msg = "internal server error"
		}
		return he.Code, Response{Error: msg, Code: statusCode(he.Code)}
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.status, Response{Error: m.target.Error(), Code: m.code}
		}
	}

	return http.StatusInternalServerError, Response{Error: "internal server error", Code: "internal_error"}
}

// statusCode derives a machine code from a bare HTTP status,
// e.g. 404 -> "not_found".
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
