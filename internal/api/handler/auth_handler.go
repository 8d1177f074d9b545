package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/httperror"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

// CookieConfig controls the refresh-token cookie attributes.
type CookieConfig struct {
	Secure bool
	// MaxAge matches the refresh token expiry.
	MaxAge time.Duration
}

// AuthHandler serves the /api/users routes.
type AuthHandler struct {
	auth   ports.AuthService
	audit  auditor
	cookie CookieConfig
}

// NewAuthHandler builds the user handler. sink may be nil.
func NewAuthHandler(auth ports.AuthService, sink ports.AuditSink, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, audit: auditor{sink: sink}, cookie: cookie}
}

// Register creates a new user account with the default role.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  httperror.Response
// @Failure      409   {object}  httperror.Response
// @Failure      500   {object}  httperror.Response
// @Router       /api/users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		return err
	}

	h.audit.emit(c, domain.EventRegistered, user.ID, user.Username, "")
	return c.JSON(http.StatusCreated, messageResponse{Msg: "User registered successfully!"})
}

// Login authenticates a user, returns an access token and sets the refresh
// token cookie.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      201   {object}  accessTokenResponse
// @Failure      400   {object}  httperror.Response
// @Failure      401   {object}  httperror.Response
// @Failure      403   {object}  httperror.Response
// @Router       /api/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameNotFound) || errors.Is(err, domain.ErrInvalidPassword) {
			_, body := httperror.Resolve(err)
			h.audit.emit(c, domain.EventLoginFailed, "", req.Username, body.Code)
		}
		return err
	}

	c.SetCookie(h.refreshCookie(res.RefreshToken, int(h.cookie.MaxAge.Seconds())))
	h.audit.emit(c, domain.EventLogin, res.User.ID, res.User.Username, "")
	return c.JSON(http.StatusCreated, accessTokenResponse{AccessToken: res.AccessToken})
}

// Logout clears the caller's stored refresh token and the cookie. Without a
// cookie there is nothing to revoke and the call is a no-op.
//
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  messageResponse
// @Success      204
// @Failure      401  {object}  httperror.Response
// @Router       /api/users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	cookie, err := c.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.auth.Logout(c.Request().Context(), p, cookie.Value); err != nil {
		return err
	}

	c.SetCookie(h.refreshCookie("", -1))
	h.audit.emit(c, domain.EventLogout, p.UserID, "", "")
	return c.JSON(http.StatusCreated, messageResponse{Msg: "Logged out successfully!"})
}

// RefreshToken issues a new access token from the refresh token cookie.
//
// @Summary      Refresh access token
// @Tags         users
// @Produce      json
// @Success      201  {object}  accessTokenResponse
// @Failure      401  {object}  httperror.Response
// @Failure      500  {object}  httperror.Response
// @Router       /api/users/refresh-token [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	cookie, err := c.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return domain.ErrRefreshTokenMissing
	}

	res, err := h.auth.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return err
	}

	h.audit.emit(c, domain.EventTokenRefresh, res.UserID, "", "")
	return c.JSON(http.StatusCreated, accessTokenResponse{AccessToken: res.AccessToken})
}

// Update applies a partial update to the caller's account and profile.
//
// @Summary      Update current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  httperror.Response
// @Failure      401   {object}  httperror.Response
// @Router       /api/users/update [put]
func (h *AuthHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.auth.UpdateUser(c.Request().Context(), p.UserID, toUpdateUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Delete removes the caller's account. Author profile, user profile and
// posts go with it.
//
// @Summary      Delete current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  httperror.Response
// @Router       /api/users/delete [delete]
func (h *AuthHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.auth.DeleteUser(c.Request().Context(), p.UserID); err != nil {
		return err
	}

	c.SetCookie(h.refreshCookie("", -1))
	h.audit.emit(c, domain.EventUserDeleted, p.UserID, "", "")
	return c.JSON(http.StatusOK, messageResponse{Msg: "User deleted successfully!"})
}

// List returns every user. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  httperror.Response
// @Failure      403  {object}  httperror.Response
// @Router       /api/users/ [get]
func (h *AuthHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	users, err := h.auth.ListUsers(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Users: nonNil(users)})
}

// Profile returns the caller's account with its profile and author profile.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  httperror.Response
// @Failure      404  {object}  httperror.Response
// @Router       /api/users/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	user, err := h.auth.GetUser(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// ChangeRole sets another user's role. Admin only.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  httperror.Response
// @Failure      403   {object}  httperror.Response
// @Failure      404   {object}  httperror.Response
// @Router       /api/users/{id}/role [patch]
func (h *AuthHandler) ChangeRole(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	target := c.Param("id")
	if err := h.auth.ChangeRole(c.Request().Context(), p, target, role); err != nil {
		return err
	}

	h.audit.emit(c, domain.EventRoleChanged, target, "", "role="+string(role)+" by="+p.UserID)
	return c.JSON(http.StatusOK, messageResponse{Msg: "Role updated successfully!"})
}

func (h *AuthHandler) refreshCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
