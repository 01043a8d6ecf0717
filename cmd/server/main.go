// @title        Blog API
// @version      1.0
// @description  Multi-user blog with a role-gated moderation workflow.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/episko/blog/docs"
	"github.com/episko/blog/internal/api"
	"github.com/episko/blog/internal/api/handler"
	"github.com/episko/blog/internal/core/ports"
	"github.com/episko/blog/internal/core/service"
	"github.com/episko/blog/internal/infrastructure/db/file"
	mongostore "github.com/episko/blog/internal/infrastructure/db/mongo"
	redisstore "github.com/episko/blog/internal/infrastructure/db/redis"
	"github.com/episko/blog/internal/infrastructure/session"
	"github.com/episko/blog/internal/pkg/config"
	"github.com/episko/blog/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blog",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	probes := make(map[string]ports.Pinger)

	var (
		users ports.UserRepository
		posts ports.PostRepository
	)
	switch cfg.StoreDriver {
	case config.StoreMongo:
		db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer db.Close(context.Background())

		userRepo := mongostore.NewUserRepository(db.Database())
		postRepo := mongostore.NewPostRepository(db.Database())
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			return err
		}
		if err := postRepo.EnsureIndexes(ctx); err != nil {
			return err
		}
		users, posts = userRepo, postRepo
		probes["mongodb"] = db
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongodb store")
	default:
		store, err := file.NewStore(cfg.DataDir)
		if err != nil {
			return err
		}
		users, posts = file.NewUserRepository(store), file.NewPostRepository(store)
		probes["store"] = store
		log.Info().Str("dir", cfg.DataDir).Msg("using file store")
	}

	var sessions ports.SessionStore
	switch cfg.Session.Driver {
	case config.SessionRedis:
		rc, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rc.Close()

		sessions = redisstore.NewSessionStore(rc.Client, cfg.Session.TTL)
		probes["redis"] = rc
	default:
		sessions = session.NewMemoryStore(cfg.Session.TTL)
	}

	authService := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL)
	if cfg.Admin.Username != "" {
		created, err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.PasswordDigest)
		if err != nil {
			return err
		}
		if created {
			log.Info().Str("username", cfg.Admin.Username).Msg("admin account created")
		}
	}

	e := api.NewRouter(api.Dependencies{
		Posts:    service.NewModerationService(posts, logger.Component("moderation")),
		Auth:     authService,
		Users:    service.NewUserService(users, logger.Component("users")),
		Sessions: sessions,
		Probes:   probes,
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.Cookie,
			Secure: cfg.Session.Secure,
			TTL:    cfg.Session.TTL,
		},
		JWTSecret:     cfg.JWTSecret,
		AuthRateLimit: cfg.AuthRateLimit,
		Logger:        log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
