package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/episko/blog/internal/api/middleware"
	"github.com/episko/blog/internal/core/domain"
)

// ctxClaims returns the authenticated caller. Routes behind RequireRole
// always have one; the check guards against wiring mistakes.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return domain.Claims{}, domain.ErrUnauthorized
	}
	return claims, nil
}

// optionalClaims returns the caller on public routes, or nil.
func optionalClaims(c echo.Context) *domain.Claims {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil
	}
	return &claims
}
