package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/core/ports"
)

// TagHandler serves the /api/tags routes.
type TagHandler struct {
	tags ports.TagService
}

func NewTagHandler(tags ports.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// List godoc
// @Summary  All tags
// @Tags     tags
// @Produce  json
// @Success  200 {object} tagsResponse
// @Router   /api/tags/ [get]
func (h *TagHandler) List(c echo.Context) error {
	tags, err := h.tags.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tagsResponse{Tags: nonNil(tags)})
}

// Create godoc
// @Summary   Create a tag
// @Tags      tags
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body body     createTagRequest true "Tag"
// @Success   201  {object} createTagResponse
// @Failure   400  {object} httperror.Response
// @Failure   409  {object} httperror.Response
// @Router    /api/tags/create [post]
func (h *TagHandler) Create(c echo.Context) error {
	var req createTagRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tag, err := h.tags.Create(c.Request().Context(), toCreateTagInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createTagResponse{Msg: "Tag created successfully!", Tag: tag})
}

// ListPosts godoc
// @Summary  Published posts carrying a tag
// @Tags     tags
// @Produce  json
// @Param    tagName path     string true "Tag slug"
// @Success  200     {object} postsResponse
// @Failure  404     {object} httperror.Response
// @Router   /api/tags/{tagName}/posts [get]
func (h *TagHandler) ListPosts(c echo.Context) error {
	posts, err := h.tags.ListPosts(c.Request().Context(), c.Param("tagName"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{Posts: nonNil(posts)})
}
