package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// AuthorHandler serves the /api/authors routes.
type AuthorHandler struct {
	authors ports.AuthorService
	audit   auditor
}

func NewAuthorHandler(authors ports.AuthorService, sink ports.AuditSink) *AuthorHandler {
	return &AuthorHandler{authors: authors, audit: auditor{sink: sink}}
}

// Create elevates a user holding the author role by creating their author
// profile.
//
// @Summary      Create author profile
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAuthorRequest  false  "Profile details"
// @Success      201   {object}  createAuthorResponse
// @Failure      401   {object}  httperror.Response
// @Failure      403   {object}  httperror.Response
// @Failure      409   {object}  httperror.Response
// @Router       /api/authors/create [post]
func (h *AuthorHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createAuthorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	author, err := h.authors.CreateProfile(c.Request().Context(), p, toCreateAuthorInput(req))
	if err != nil {
		return err
	}

	h.audit.emit(c, domain.EventAuthorCreated, p.UserID, "", "author="+author.ID)
	return c.JSON(http.StatusCreated, createAuthorResponse{
		Msg:    "Author profile successfully created!",
		Author: author,
	})
}

// Profile returns the caller's author profile with its owning user.
//
// @Summary      Current author profile
// @Tags         authors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authorResponse
// @Failure      401  {object}  httperror.Response
// @Failure      403  {object}  httperror.Response
// @Failure      404  {object}  httperror.Response
// @Router       /api/authors/profile [get]
func (h *AuthorHandler) Profile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	author, err := h.authors.GetProfile(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authorResponse{Author: author})
}
