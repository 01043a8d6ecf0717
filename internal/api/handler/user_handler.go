package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/episko/blog/internal/core/ports"
)

// UserHandler serves public author pages.
type UserHandler struct {
	posts ports.PostService
}

func NewUserHandler(posts ports.PostService) *UserHandler {
	return &UserHandler{posts: posts}
}

// Index handles GET /user/:user.
func (h *UserHandler) Index(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/user/"+url.PathEscape(c.Param("user"))+"/posts")
}

// Posts handles GET /user/:user/posts and lists every post by the author,
// whatever its status.
//
// @Summary      Posts by author
// @Tags         users
// @Produce      json
// @Param        user  path      string  true  "Author username"
// @Success      200   {object}  userPostsResponse
// @Router       /user/{user}/posts [get]
func (h *UserHandler) Posts(c echo.Context) error {
	author := c.Param("user")
	posts, err := h.posts.ListByAuthor(c.Request().Context(), author)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userPostsResponse{Author: author, Posts: posts})
}
