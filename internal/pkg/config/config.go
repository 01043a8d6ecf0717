package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

const (
	StoreFile  = "file"
	StoreMongo = "mongo"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	// StoreDriver selects the user/post backend: file or mongo.
	StoreDriver string `env:"STORE_DRIVER, default=file"`
	DataDir     string `env:"DATA_DIR,     default=./data"`

	// AuthRateLimit is login/register submissions per second per client IP.
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT, default=5"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Session SessionConfig
	Admin   AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SessionConfig struct {
	Driver string        `env:"SESSION_DRIVER, default=memory"`
	TTL    time.Duration `env:"SESSION_TTL,    default=24h"`
	Cookie string        `env:"SESSION_COOKIE, default=blog_session"`
	Secure bool          `env:"SESSION_SECURE, default=false"`
}

// AdminConfig seeds an admin account at startup when both fields are set.
// PasswordDigest is the SHA-256 hex digest of the password.
type AdminConfig struct {
	Username       string `env:"ADMIN_USERNAME"`
	PasswordDigest string `env:"ADMIN_PASSWORD_DIGEST"`
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case StoreFile, StoreMongo:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.Session.Driver {
	case SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("config: unknown SESSION_DRIVER %q", c.Session.Driver)
	}
	if (c.Admin.Username == "") != (c.Admin.PasswordDigest == "") {
		return fmt.Errorf("config: ADMIN_USERNAME and ADMIN_PASSWORD_DIGEST must be set together")
	}
	if c.Admin.PasswordDigest != "" {
		if err := validator.New().Var(c.Admin.PasswordDigest, "len=64,hexadecimal"); err != nil {
			return fmt.Errorf("config: ADMIN_PASSWORD_DIGEST must be a 64 character SHA-256 hex digest")
		}
	}
	return nil
}

// Load reads configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
