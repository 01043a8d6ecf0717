package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/episko/blog/internal/api/metrics"
	"github.com/episko/blog/internal/core/ports"
)

// PostHandler serves the public feed and the author/admin post operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// ListPublished handles GET /posts.
//
// @Summary      List published posts
// @Tags         posts
// @Produce      json
// @Success      200  {object}  postListResponse
// @Router       /posts [get]
func (h *PostHandler) ListPublished(c echo.Context) error {
	posts, err := h.service.ListPublished(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postListResponse{Posts: posts})
}

// Read handles GET /posts/:id/read.
//
// @Summary      Read a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  domain.Post
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id}/read [get]
func (h *PostHandler) Read(c echo.Context) error {
	post, err := h.service.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// NewForm handles GET /posts/new.
func (h *PostHandler) NewForm(c echo.Context) error {
	return c.JSON(http.StatusOK, postFormResponse{Action: "/posts"})
}

// EditForm handles GET /posts/:id/edit.
func (h *PostHandler) EditForm(c echo.Context) error {
	post, err := h.service.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postFormResponse{Action: "/posts/" + post.ID, Post: post})
}

// Create handles POST /posts.
//
// @Summary      Submit a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postRequest  true  "Post"
// @Success      201   {object}  domain.Post
// @Failure      400   {string}  string
// @Failure      401   {string}  string
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.service.CreatePost(c.Request().Context(), claims, req.Title, req.Content)
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.WithLabelValues(string(post.Status)).Inc()
	return c.JSON(http.StatusCreated, post)
}

// Update handles POST /posts/:id. Authors may only edit their own posts.
//
// @Summary      Edit a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Post id"
// @Param        body  body      postRequest  true  "Post"
// @Success      200   {object}  domain.Post
// @Failure      400   {string}  string
// @Failure      403   {string}  string
// @Failure      404   {string}  string
// @Router       /posts/{id} [post]
func (h *PostHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.service.UpdatePost(c.Request().Context(), claims, c.Param("id"), req.Title, req.Content)
	metrics.ModerationActionsTotal.WithLabelValues("update", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Approve handles POST /posts/:id/approve.
//
// @Summary      Publish a pending post
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  domain.Post
// @Failure      404  {string}  string
// @Failure      422  {string}  string
// @Router       /posts/{id}/approve [post]
func (h *PostHandler) Approve(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	post, err := h.service.ApprovePost(c.Request().Context(), claims, c.Param("id"))
	metrics.ModerationActionsTotal.WithLabelValues("approve", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Archive handles POST /posts/:id/archive.
//
// @Summary      Archive a post
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  domain.Post
// @Failure      404  {string}  string
// @Failure      422  {string}  string
// @Router       /posts/{id}/archive [post]
func (h *PostHandler) Archive(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	post, err := h.service.ArchivePost(c.Request().Context(), claims, c.Param("id"))
	metrics.ModerationActionsTotal.WithLabelValues("archive", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /posts/:id.
//
// @Summary      Delete a post
// @Tags         moderation
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  messageResponse
// @Failure      404  {string}  string
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	err = h.service.DeletePost(c.Request().Context(), claims, c.Param("id"))
	metrics.ModerationActionsTotal.WithLabelValues("delete", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "post deleted"})
}
