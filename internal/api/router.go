package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/episko/blog/internal/api/handler"
	"github.com/episko/blog/internal/api/middleware"
	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
)

// Dependencies is everything the router needs to serve requests.
type Dependencies struct {
	Posts    ports.PostService
	Auth     ports.AuthService
	Users    ports.UserService
	Sessions ports.SessionStore

	// Probes are pinged by /health/ready, keyed by name.
	Probes map[string]ports.Pinger

	Cookie    handler.CookieConfig
	JWTSecret string
	// AuthRateLimit is the number of login/register submissions allowed per
	// second and client IP. Zero disables the limiter.
	AuthRateLimit float64

	Logger zerolog.Logger
	// Registry receives the HTTP request metrics. A fresh registry is used
	// when nil.
	Registry *prometheus.Registry
}

// NewRouter builds the echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registry,
	}))
	e.Use(middleware.Identity(middleware.IdentityConfig{
		Sessions:   deps.Sessions,
		CookieName: deps.Cookie.Name,
		JWTSecret:  deps.JWTSecret,
	}))

	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	adminAuthor := middleware.RequireRole(domain.RoleAdmin, domain.RoleAuthor)

	postHandler := handler.NewPostHandler(deps.Posts)
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Sessions, deps.Cookie, deps.Logger)
	adminHandler := handler.NewAdminHandler(deps.Posts, deps.Users)
	userHandler := handler.NewUserHandler(deps.Posts)
	healthHandler := handler.NewHealthHandler(deps.Probes)

	// --- Posts ---
	posts := e.Group("/posts")
	posts.GET("", postHandler.ListPublished)
	posts.GET("/new", postHandler.NewForm, adminAuthor)
	posts.GET("/:id/read", postHandler.Read)
	posts.GET("/:id/edit", postHandler.EditForm, adminAuthor)
	posts.POST("", postHandler.Create, adminAuthor)
	posts.POST("/:id", postHandler.Update, adminAuthor)
	posts.DELETE("/:id", postHandler.Delete, adminOnly)
	posts.POST("/:id/approve", postHandler.Approve, adminOnly)
	posts.POST("/:id/archive", postHandler.Archive, adminOnly)

	// --- Admin ---
	admin := e.Group("/admin", adminOnly)
	admin.GET("", adminHandler.Index)
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.POST("/users/:username/role", adminHandler.SetRole)
	admin.DELETE("/users/:username", adminHandler.DeleteUser)

	// --- Auth ---
	limited := authRateLimiter(deps.AuthRateLimit)
	auth := e.Group("/auth")
	auth.GET("", authHandler.Index)
	auth.GET("/login", authHandler.LoginForm)
	auth.POST("/login", authHandler.Login, limited...)
	auth.GET("/register", authHandler.RegisterForm)
	auth.POST("/register", authHandler.Register, limited...)
	auth.POST("/logout", authHandler.Logout)

	// --- Users ---
	e.GET("/user/:user", userHandler.Index)
	e.GET("/user/:user/posts", userHandler.Posts)

	// --- Operations ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{registry, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func authRateLimiter(perSecond float64) []echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return []echo.MiddlewareFunc{echomiddleware.RateLimiter(store)}
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
