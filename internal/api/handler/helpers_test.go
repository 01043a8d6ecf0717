package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
)

var (
	adminClaims  = domain.Claims{Username: "root", Role: domain.RoleAdmin}
	authorClaims = domain.Claims{Username: "bob", Role: domain.RoleAuthor}
)

// sha256("secret")
const testDigest = "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b"

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds a request context; claims, when non-nil, are attached
// the way the Identity middleware does it.
func newContext(e *echo.Echo, method, target, body string, claims *domain.Claims) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set("claims", *claims)
	}
	return c, rec
}

func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

type stubAuthService struct {
	registerFn func(ctx context.Context, caller *domain.Claims, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, username, digest string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, caller *domain.Claims, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, caller, in)
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, digest string) (*domain.User, error) {
	_, u, err := s.loginFn(ctx, username, digest)
	return u, err
}

func (s *stubAuthService) Login(ctx context.Context, username, digest string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, digest)
}

type stubSessions struct {
	created   []domain.Claims
	destroyed []string
}

func (s *stubSessions) Create(_ context.Context, claims domain.Claims) (string, error) {
	s.created = append(s.created, claims)
	return "sess-1", nil
}

func (s *stubSessions) Get(context.Context, string) (*domain.Claims, error) {
	return nil, domain.ErrSessionNotFound
}

func (s *stubSessions) Destroy(_ context.Context, id string) error {
	s.destroyed = append(s.destroyed, id)
	return nil
}

// stubPostService implements ports.PostService; unset funcs panic.
type stubPostService struct {
	createFn  func(ctx context.Context, caller domain.Claims, title, content string) (*domain.Post, error)
	getFn     func(ctx context.Context, id string) (*domain.Post, error)
	listFn    func(ctx context.Context) ([]*domain.Post, error)
	byAuthor  func(ctx context.Context, username string) ([]*domain.Post, error)
	updateFn  func(ctx context.Context, caller domain.Claims, id, title, content string) (*domain.Post, error)
	approveFn func(ctx context.Context, caller domain.Claims, id string) (*domain.Post, error)
	archiveFn func(ctx context.Context, caller domain.Claims, id string) (*domain.Post, error)
	deleteFn  func(ctx context.Context, caller domain.Claims, id string) error
}

func (s *stubPostService) CreatePost(ctx context.Context, caller domain.Claims, title, content string) (*domain.Post, error) {
	return s.createFn(ctx, caller, title, content)
}

func (s *stubPostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.getFn(ctx, id)
}

func (s *stubPostService) ListPublished(ctx context.Context) ([]*domain.Post, error) {
	return s.listFn(ctx)
}

func (s *stubPostService) ListByAuthor(ctx context.Context, username string) ([]*domain.Post, error) {
	return s.byAuthor(ctx, username)
}

func (s *stubPostService) ListAll(ctx context.Context) ([]*domain.Post, error) {
	return s.listFn(ctx)
}

func (s *stubPostService) UpdatePost(ctx context.Context, caller domain.Claims, id, title, content string) (*domain.Post, error) {
	return s.updateFn(ctx, caller, id, title, content)
}

func (s *stubPostService) ApprovePost(ctx context.Context, caller domain.Claims, id string) (*domain.Post, error) {
	return s.approveFn(ctx, caller, id)
}

func (s *stubPostService) ArchivePost(ctx context.Context, caller domain.Claims, id string) (*domain.Post, error) {
	return s.archiveFn(ctx, caller, id)
}

func (s *stubPostService) DeletePost(ctx context.Context, caller domain.Claims, id string) error {
	return s.deleteFn(ctx, caller, id)
}

type stubUserService struct {
	users   []*domain.User
	roles   map[string]domain.Role
	deleted []string
}

func (s *stubUserService) ListUsers(context.Context) ([]*domain.User, error) {
	return s.users, nil
}

func (s *stubUserService) SetRole(_ context.Context, caller domain.Claims, username string, role domain.Role) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if s.roles == nil {
		s.roles = make(map[string]domain.Role)
	}
	s.roles[username] = role
	return nil
}

func (s *stubUserService) DeleteUser(_ context.Context, caller domain.Claims, username string) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if username == "ghost" {
		return domain.ErrUserNotFound
	}
	s.deleted = append(s.deleted, username)
	return nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
