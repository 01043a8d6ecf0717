package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/episko/blog/internal/core/domain"
)

func runRequireRole(method, target string, claims *domain.Claims, roles ...domain.Role) (*httptest.ResponseRecorder, bool) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		setClaims(c, *claims)
	}

	called := false
	handler := RequireRole(roles...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestRequireRole_Allows(t *testing.T) {
	author := domain.Claims{Username: "bob", Role: domain.RoleAuthor}

	rec, called := runRequireRole(http.MethodPost, "/posts", &author, domain.RoleAdmin, domain.RoleAuthor)
	if !called {
		t.Fatal("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_InsufficientRole(t *testing.T) {
	user := domain.Claims{Username: "alice", Role: domain.RoleUser}

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec, called := runRequireRole(method, "/admin/dashboard", &user, domain.RoleAdmin)
		if called {
			t.Fatalf("%s: should not reach next handler", method)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", method, rec.Code)
		}
	}
}

func TestRequireRole_AnonymousGetRedirects(t *testing.T) {
	rec, called := runRequireRole(http.MethodGet, "/posts/new?draft=1&tag=go", nil, domain.RoleAdmin, domain.RoleAuthor)
	if called {
		t.Fatal("should not reach next handler")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}

	want := "/auth/login?next=%2Fposts%2Fnew%3Fdraft%3D1%26tag%3Dgo"
	if got := rec.Header().Get(echo.HeaderLocation); got != want {
		t.Fatalf("expected Location %q, got %q", want, got)
	}
}

func TestRequireRole_AnonymousPostUnauthorized(t *testing.T) {
	rec, called := runRequireRole(http.MethodPost, "/posts", nil, domain.RoleAdmin, domain.RoleAuthor)
	if called {
		t.Fatal("should not reach next handler")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_UnknownRoleNeverAllowed(t *testing.T) {
	bogus := domain.Claims{Username: "eve", Role: domain.Role("root")}

	_, called := runRequireRole(http.MethodGet, "/posts/new", &bogus, domain.RoleAdmin, domain.RoleAuthor, domain.RoleUser)
	if called {
		t.Fatal("unknown role must not pass")
	}
}
