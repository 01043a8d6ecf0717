package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/episko/blog/internal/core/domain"
)

// LoginPath is where anonymous page requests are sent to sign in.
const LoginPath = "/auth/login"

// RequireRole admits callers holding one of roles. Anonymous GET requests
// are redirected to the login page with the requested URI in ?next=; other
// anonymous requests and callers with the wrong role get 401.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				if c.Request().Method == http.MethodGet {
					return c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request().RequestURI))
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			if !domain.IsAllowed(claims.Role, roles...) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			return next(c)
		}
	}
}
