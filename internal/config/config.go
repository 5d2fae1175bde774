// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env  string `env:"APP_ENV" env-default:"local"`
	Port string `env:"PORT" env-default:"8080"`

	// StorageDriver selects the record store: "postgres" or "memory".
	StorageDriver string `env:"STORAGE_DRIVER" env-default:"postgres"`
	DatabaseDSN   string `env:"DATABASE_DSN"`

	Redis Redis
	JWT   JWT
	SMTP  SMTP
	Asset Asset

	// FrontendBaseURL is where a verified user is redirected; "login" is appended.
	FrontendBaseURL string `env:"FRONTEND_BASE_URL" env-default:"http://localhost:4200/"`
	// PublicBaseURL overrides the scheme://host used to build verification
	// and photo links. Derived from the request when empty, in which case a
	// client controls the host written into verification emails through the
	// Host and X-Forwarded-Proto headers. Set it in production.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	// FallbackUserID owns recipes created without an explicit owner.
	FallbackUserID uint `env:"FALLBACK_USER_ID" env-default:"1"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type Redis struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" env-default:"0"`
	CacheTTL time.Duration `env:"CACHE_TTL" env-default:"5m"`
}

type JWT struct {
	Secret string        `env:"JWT_SECRET" env-required:"true"`
	TTL    time.Duration `env:"TOKEN_TTL" env-default:"24h"`
}

type SMTP struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"FROM_EMAIL" env-default:"no-reply@recetas.local"`
}

type Asset struct {
	// Backend is "disk" or "s3".
	Backend   string `env:"ASSET_BACKEND" env-default:"disk"`
	UploadDir string `env:"UPLOAD_DIR" env-default:"./assets/uploads"`
	MaxBytes  int64  `env:"UPLOAD_MAX_BYTES" env-default:"5242880"`

	S3Bucket    string `env:"S3_BUCKET" env-default:"recetas"`
	S3Region    string `env:"S3_REGION" env-default:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
}

// Load reads an optional .env file and then the process environment.
func Load(dotenvPaths ...string) (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(dotenvPaths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(dotenvPaths ...string) *Config {
	cfg, err := Load(dotenvPaths...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Warnings lists settings that load fine but are unsafe for c.Env.
func (c *Config) Warnings() []string {
	var w []string
	if c.Env == EnvProd && c.PublicBaseURL == "" {
		w = append(w, "PUBLIC_BASE_URL is empty, links are built from request headers")
	}
	return w
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case "memory":
	case "postgres":
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.Asset.Backend {
	case "disk", "s3":
	default:
		return fmt.Errorf("unknown ASSET_BACKEND %q", c.Asset.Backend)
	}
	if c.JWT.TTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}
