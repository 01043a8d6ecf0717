package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
)

type IdentityConfig struct {
	Sessions   ports.SessionStore
	CookieName string
	JWTSecret  string
}

// Identity resolves the caller from the session cookie or, failing that, a
// bearer token. Anonymous requests pass through without claims; gating is
// left to RequireRole. A malformed or expired bearer token is rejected.
func Identity(cfg IdentityConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				claims, err := cfg.Sessions.Get(c.Request().Context(), cookie.Value)
				switch {
				case err == nil:
					setClaims(c, *claims)
					c.Set(sessionIDKey, cookie.Value)
					return next(c)
				case !errors.Is(err, domain.ErrSessionNotFound):
					return err
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := parseToken(parts[1], cfg.JWTSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}

			setClaims(c, claims)
			return next(c)
		}
	}
}

func parseToken(raw, secret string) (domain.Claims, error) {
	mc := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, mc, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return domain.Claims{}, err
	}
	if !tkn.Valid {
		return domain.Claims{}, jwt.ErrTokenInvalidClaims
	}

	username := stringClaim(mc, "username")
	role := domain.Role(stringClaim(mc, "role"))
	if username == "" || !role.Valid() {
		return domain.Claims{}, jwt.ErrTokenInvalidClaims
	}
	return domain.Claims{Username: username, Role: role}, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	s, _ := mc[key].(string)
	return s
}
