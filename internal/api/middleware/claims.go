package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/episko/blog/internal/core/domain"
)

const (
	claimsKey    = "claims"
	sessionIDKey = "session_id"
)

// ClaimsFrom returns the caller identity resolved by Identity, if any.
func ClaimsFrom(c echo.Context) (domain.Claims, bool) {
	claims, ok := c.Get(claimsKey).(domain.Claims)
	return claims, ok
}

// SessionID returns the id of the session cookie that authenticated the
// request, or "".
func SessionID(c echo.Context) string {
	id, _ := c.Get(sessionIDKey).(string)
	return id
}

func setClaims(c echo.Context, claims domain.Claims) {
	c.Set(claimsKey, claims)
}
