package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/core/ports"
)

// PostHandler serves the /api/posts routes.
type PostHandler struct {
	posts ports.PostService
}

func NewPostHandler(posts ports.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// ListPublished godoc
// @Summary  Published posts, newest first
// @Tags     posts
// @Produce  json
// @Success  200 {object} publishedPostsResponse
// @Router   /api/posts/ [get]
func (h *PostHandler) ListPublished(c echo.Context) error {
	posts, err := h.posts.ListPublished(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, publishedPostsResponse{PublishedPosts: nonNil(posts)})
}

// ListAll godoc
// @Summary   Every post including drafts
// @Tags      posts
// @Produce   json
// @Security  BearerAuth
// @Success   200 {object} postsResponse
// @Failure   403 {object} httperror.Response
// @Router    /api/posts/all [get]
func (h *PostHandler) ListAll(c echo.Context) error {
	posts, err := h.posts.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{Posts: nonNil(posts)})
}

// ListMine godoc
// @Summary   The caller's posts, newest first
// @Tags      posts
// @Produce   json
// @Security  BearerAuth
// @Success   200 {object} authorPostsResponse
// @Failure   403 {object} httperror.Response
// @Router    /api/posts/authorPost [get]
func (h *PostHandler) ListMine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	posts, err := h.posts.ListByAuthor(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authorPostsResponse{AuthorPosts: nonNil(posts)})
}

// Create godoc
// @Summary   Create a draft post
// @Tags      posts
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body body     createPostRequest true "Post"
// @Success   201  {object} createPostResponse
// @Failure   400  {object} httperror.Response
// @Failure   404  {object} httperror.Response
// @Router    /api/posts/create [post]
func (h *PostHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.Request().Context(), p, toCreatePostInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createPostResponse{Msg: "Post creation successful!", Post: post})
}

// Publish godoc
// @Summary   Publish one of the caller's posts
// @Tags      posts
// @Produce   json
// @Security  BearerAuth
// @Param     id  path     string true "Post ID"
// @Success   200 {object} postResponse
// @Failure   403 {object} httperror.Response
// @Failure   404 {object} httperror.Response
// @Router    /api/posts/{id}/publish [patch]
func (h *PostHandler) Publish(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	post, err := h.posts.Publish(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postResponse{Post: post})
}
