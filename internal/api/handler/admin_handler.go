package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/episko/blog/internal/api/metrics"
	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
)

type AdminHandler struct {
	posts ports.PostService
	users ports.UserService
}

func NewAdminHandler(posts ports.PostService, users ports.UserService) *AdminHandler {
	return &AdminHandler{posts: posts, users: users}
}

// Index handles GET /admin.
func (h *AdminHandler) Index(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/admin/dashboard")
}

// Dashboard handles GET /admin/dashboard: every post regardless of status,
// plus the user directory.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	posts, err := h.posts.ListAll(ctx)
	if err != nil {
		return err
	}
	users, err := h.users.ListUsers(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{Posts: posts, Users: users})
}

// SetRole handles POST /admin/users/:username/role.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        username  path      string       true  "Username"
// @Param        body      body      roleRequest  true  "New role"
// @Success      200       {object}  messageResponse
// @Failure      400       {string}  string
// @Failure      404       {string}  string
// @Router       /admin/users/{username}/role [post]
func (h *AdminHandler) SetRole(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	if err := h.users.SetRole(c.Request().Context(), claims, c.Param("username"), role); err != nil {
		return err
	}

	metrics.UserAdminActionsTotal.WithLabelValues("set_role").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "role updated"})
}

// DeleteUser handles DELETE /admin/users/:username.
//
// @Summary      Delete a user
// @Tags         admin
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  messageResponse
// @Failure      404       {string}  string
// @Router       /admin/users/{username} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.users.DeleteUser(c.Request().Context(), claims, c.Param("username")); err != nil {
		return err
	}

	metrics.UserAdminActionsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted"})
}
