package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/episko/blog/internal/api/handler"
	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
	"github.com/episko/blog/internal/core/service"
	"github.com/episko/blog/internal/infrastructure/db/file"
	"github.com/episko/blog/internal/infrastructure/session"
)

// sha256("secret")
const digest = "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b"

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T, rateLimit float64) *testServer {
	t.Helper()

	store, err := file.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	log := zerolog.Nop()
	users := file.NewUserRepository(store)

	authSvc := service.NewAuthService(users, "test-secret", time.Hour)
	if _, err := authSvc.EnsureAdmin(context.Background(), "root", digest); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	e := NewRouter(Dependencies{
		Posts:         service.NewModerationService(file.NewPostRepository(store), log),
		Auth:          authSvc,
		Users:         service.NewUserService(users, log),
		Sessions:      session.NewMemoryStore(time.Hour),
		Probes:        map[string]ports.Pinger{"store": store},
		Cookie:        handler.CookieConfig{Name: "sid", TTL: time.Hour},
		JWTSecret:     "test-secret",
		AuthRateLimit: rateLimit,
		Logger:        log,
	})
	return &testServer{t: t, e: e}
}

type credential func(*http.Request)

func withCookie(c *http.Cookie) credential {
	return func(r *http.Request) { r.AddCookie(c) }
}

func withBearer(token string) credential {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func (s *testServer) do(method, target, body string, creds ...credential) *httptest.ResponseRecorder {
	s.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range creds {
		c(req)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie in response (status %d)", rec.Code)
	return nil
}

func (s *testServer) login(username string) (*http.Cookie, string) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/auth/login", `{"username":"`+username+`","password":"`+digest+`"}`)
	if rec.Code != http.StatusOK {
		s.t.Fatalf("login %s: expected 200, got %d: %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return sessionCookie(s.t, rec), resp.Token
}

func decodePost(t *testing.T, rec *httptest.ResponseRecorder) domain.Post {
	t.Helper()
	var p domain.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode post: %v (%s)", err, rec.Body.String())
	}
	return p
}

func publishedCount(t *testing.T, s *testServer) int {
	t.Helper()
	rec := s.do(http.MethodGet, "/posts", "")
	var resp struct {
		Posts []domain.Post `json:"posts"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return len(resp.Posts)
}

func TestRouter_ModerationScenario(t *testing.T) {
	s := newTestServer(t, 0)

	// alice signs up and is logged in as a plain user
	rec := s.do(http.MethodPost, "/auth/register",
		`{"firstName":"Alice","lastName":"Liddell","username":"alice","password":"`+digest+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	aliceCookie := sessionCookie(t, rec)

	rec = s.do(http.MethodPost, "/posts", `{"title":"Hi","content":"x"}`, withCookie(aliceCookie))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("user create: expected 401, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMETextPlain) {
		t.Fatalf("non-GET errors are plain text, got %q", ct)
	}

	// the admin promotes alice; she logs in again to pick up the new role
	_, adminToken := s.login("root")
	rec = s.do(http.MethodPost, "/admin/users/alice/role", `{"role":"author"}`, withBearer(adminToken))
	if rec.Code != http.StatusOK {
		t.Fatalf("set role: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	aliceCookie, _ = s.login("alice")

	rec = s.do(http.MethodPost, "/posts", `{"title":"Hi","content":"x"}`, withCookie(aliceCookie))
	if rec.Code != http.StatusCreated {
		t.Fatalf("author create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	post := decodePost(t, rec)
	if post.Status != domain.StatusPending || post.Author != "alice" || len(post.ID) != 48 {
		t.Fatalf("unexpected post: %+v", post)
	}
	if n := publishedCount(t, s); n != 0 {
		t.Fatalf("pending post must not be listed, got %d", n)
	}

	rec = s.do(http.MethodPost, "/posts/"+post.ID+"/approve", "", withBearer(adminToken))
	if rec.Code != http.StatusOK || decodePost(t, rec).Status != domain.StatusPublished {
		t.Fatalf("approve: got %d %s", rec.Code, rec.Body.String())
	}
	if n := publishedCount(t, s); n != 1 {
		t.Fatalf("expected 1 published post, got %d", n)
	}

	rec = s.do(http.MethodPost, "/posts/"+post.ID+"/approve", "", withBearer(adminToken))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("second approve: expected 422, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/posts/"+post.ID+"/archive", "", withBearer(adminToken))
	if rec.Code != http.StatusOK {
		t.Fatalf("archive: expected 200, got %d", rec.Code)
	}
	rec = s.do(http.MethodPost, "/posts/"+post.ID+"/archive", "", withBearer(adminToken))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("second archive: expected 422, got %d", rec.Code)
	}
	rec = s.do(http.MethodPost, "/posts/"+post.ID+"/approve", "", withBearer(adminToken))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("approve archived: expected 422, got %d", rec.Code)
	}
	if n := publishedCount(t, s); n != 0 {
		t.Fatalf("archived post must not be listed, got %d", n)
	}

	rec = s.do(http.MethodGet, "/user/alice/posts", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), post.ID) {
		t.Fatalf("author page: got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_OwnershipAndAdminGates(t *testing.T) {
	s := newTestServer(t, 0)
	_, adminToken := s.login("root")

	for _, u := range []string{"carol", "dave"} {
		rec := s.do(http.MethodPost, "/auth/register",
			`{"firstName":"F","lastName":"L","username":"`+u+`","password":"`+digest+`","role":"author"}`,
			withBearer(adminToken))
		if rec.Code != http.StatusCreated {
			t.Fatalf("register %s: got %d %s", u, rec.Code, rec.Body.String())
		}
	}
	carol, _ := s.login("carol")
	dave, _ := s.login("dave")

	rec := s.do(http.MethodPost, "/posts", `{"title":"carol's","content":"c"}`, withCookie(carol))
	post := decodePost(t, rec)

	rec = s.do(http.MethodPost, "/posts/"+post.ID, `{"title":"hijacked","content":""}`, withCookie(dave))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign edit: expected 403, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/posts/"+post.ID, `{"title":"edited","content":"c2"}`, withCookie(carol))
	if rec.Code != http.StatusOK {
		t.Fatalf("own edit: expected 200, got %d", rec.Code)
	}
	edited := decodePost(t, rec)
	if edited.Title != "edited" || edited.Status != domain.StatusPending || !edited.CreatedAt.Equal(post.CreatedAt) {
		t.Fatalf("unexpected edit result: %+v", edited)
	}

	rec = s.do(http.MethodPost, "/posts/"+post.ID+"/approve", "", withCookie(carol))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("author approve: expected 401, got %d", rec.Code)
	}
	rec = s.do(http.MethodDelete, "/posts/"+post.ID, "", withCookie(carol))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("author delete: expected 401, got %d", rec.Code)
	}

	rec = s.do(http.MethodDelete, "/posts/nope", "", withBearer(adminToken))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing: expected 404, got %d", rec.Code)
	}
	rec = s.do(http.MethodDelete, "/posts/"+post.ID, "", withBearer(adminToken))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = s.do(http.MethodGet, "/posts/"+post.ID+"/read", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("read deleted: expected 404, got %d", rec.Code)
	}
	var envelope map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil || envelope["error"] == "" {
		t.Fatalf("GET errors are JSON envelopes, got %s", rec.Body.String())
	}
}

func TestRouter_AnonymousAccess(t *testing.T) {
	s := newTestServer(t, 0)

	rec := s.do(http.MethodGet, "/posts/new", "")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/auth/login?next=%2Fposts%2Fnew" {
		t.Fatalf("unexpected redirect %q", loc)
	}

	rec = s.do(http.MethodGet, "/admin/dashboard", "")
	if rec.Code != http.StatusFound {
		t.Fatalf("dashboard: expected 302, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/posts", `{"title":"x"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/auth/register",
		`{"firstName":"E","lastName":"V","username":"eve","password":"`+digest+`","role":"admin"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("self-assigned role: expected 403, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/auth/login", `{"username":"root","password":"`+strings.Repeat("0", 64)+`"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong digest: expected 401, got %d", rec.Code)
	}

	rec = s.do(http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("readiness: expected 200, got %d", rec.Code)
	}
}

func TestRouter_Logout(t *testing.T) {
	s := newTestServer(t, 0)
	cookie, _ := s.login("root")

	if rec := s.do(http.MethodGet, "/admin/dashboard", "", withCookie(cookie)); rec.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", rec.Code)
	}
	if rec := s.do(http.MethodPost, "/auth/logout", "", withCookie(cookie)); rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/admin/dashboard", "", withCookie(cookie)); rec.Code != http.StatusFound {
		t.Fatalf("after logout: expected redirect, got %d", rec.Code)
	}
}

func TestRouter_AuthRateLimit(t *testing.T) {
	s := newTestServer(t, 1)
	body := `{"username":"root","password":"` + strings.Repeat("0", 64) + `"}`

	if rec := s.do(http.MethodPost, "/auth/login", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("first attempt: expected 401, got %d", rec.Code)
	}
	if rec := s.do(http.MethodPost, "/auth/login", body); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second attempt: expected 429, got %d", rec.Code)
	}
}

func TestRouter_SeededAdminWithUppercaseDigest(t *testing.T) {
	store, err := file.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	users := file.NewUserRepository(store)
	authSvc := service.NewAuthService(users, "test-secret", time.Hour)

	created, err := authSvc.EnsureAdmin(context.Background(), "boss", strings.ToUpper(digest))
	if err != nil || !created {
		t.Fatalf("EnsureAdmin = %v, %v", created, err)
	}

	log := zerolog.Nop()
	s := &testServer{t: t, e: NewRouter(Dependencies{
		Posts:     service.NewModerationService(file.NewPostRepository(store), log),
		Auth:      authSvc,
		Users:     service.NewUserService(users, log),
		Sessions:  session.NewMemoryStore(time.Hour),
		Cookie:    handler.CookieConfig{Name: "sid", TTL: time.Hour},
		JWTSecret: "test-secret",
		Logger:    log,
	})}

	for _, pw := range []string{digest, strings.ToUpper(digest)} {
		rec := s.do(http.MethodPost, "/auth/login", `{"username":"boss","password":"`+pw+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("login with %q: expected 200, got %d: %s", pw, rec.Code, rec.Body.String())
		}
	}
}
