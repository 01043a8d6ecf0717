package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/episko/blog/internal/api/metrics"
	"github.com/episko/blog/internal/api/middleware"
	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	sessions    ports.SessionStore
	cookie      CookieConfig
	logger      zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, sessions ports.SessionStore, cookie CookieConfig, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, cookie: cookie, logger: logger}
}

// Index handles GET /auth.
func (h *AuthHandler) Index(c echo.Context) error {
	if claims := optionalClaims(c); claims != nil {
		return c.Redirect(http.StatusFound, "/user/"+url.PathEscape(claims.Username))
	}
	return c.Redirect(http.StatusFound, middleware.LoginPath+"?next="+url.QueryEscape("/posts"))
}

// LoginForm handles GET /auth/login.
//
// @Summary      Describe the login form
// @Tags         auth
// @Produce      json
// @Param        next  query     string  false  "Where to go after signing in"
// @Success      200   {object}  authFormResponse
// @Router       /auth/login [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, authFormResponse{
		Action: middleware.LoginPath,
		Fields: []string{"username", "password"},
		Next:   c.QueryParam("next"),
	})
}

// RegisterForm handles GET /auth/register. The role field is offered to
// admins only.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	fields := []string{"firstName", "lastName", "username", "password"}
	if claims := optionalClaims(c); claims != nil && claims.IsAdmin() {
		fields = append(fields, "role")
	}
	return c.JSON(http.StatusOK, authFormResponse{Action: "/auth/register", Fields: fields})
}

// Register creates a new account. Anonymous sign-ups are logged in right
// away; admins creating accounts keep their own session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form; password is the SHA-256 hex digest"
// @Success      201   {object}  authResponse
// @Failure      400   {string}  string
// @Failure      403   {string}  string
// @Failure      409   {string}  string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := ports.RegisterInput{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Username:       req.Username,
		PasswordDigest: strings.ToLower(req.Password),
	}
	if req.Role != "" {
		role, err := domain.ParseRole(req.Role)
		if err != nil {
			return err
		}
		in.Role = role
	}

	caller := optionalClaims(c)
	user, err := h.authService.Register(c.Request().Context(), caller, in)
	metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	h.logger.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("user registered")

	resp := authResponse{User: user}
	if caller == nil {
		if err := h.startSession(c, user.Claims()); err != nil {
			return err
		}
		resp.Redirect = "/user/" + url.PathEscape(user.Username)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login authenticates a user, starts a session and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials; password is the SHA-256 hex digest"
// @Success      200   {object}  authResponse
// @Failure      400   {string}  string
// @Failure      401   {string}  string
// @Failure      429   {string}  string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, strings.ToLower(req.Password))
	metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	if id := middleware.SessionID(c); id != "" {
		if err := h.sessions.Destroy(c.Request().Context(), id); err != nil {
			return err
		}
	}
	if err := h.startSession(c, user.Claims()); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Token:    token,
		User:     user,
		Redirect: safeRedirect(req.Next),
	})
}

// Logout destroys the current session, if any.
//
// @Summary      Logout
// @Tags         auth
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if id := middleware.SessionID(c); id != "" {
		if err := h.sessions.Destroy(c.Request().Context(), id); err != nil {
			return err
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *AuthHandler) startSession(c echo.Context, claims domain.Claims) error {
	id, err := h.sessions.Create(c.Request().Context(), claims)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// safeRedirect only follows local paths; anything else goes home. Browsers
// read /\host as //host.
func safeRedirect(next string) string {
	if next == "" || next[0] != '/' {
		return "/"
	}
	if len(next) > 1 && (next[1] == '/' || next[1] == '\\') {
		return "/"
	}
	return next
}
