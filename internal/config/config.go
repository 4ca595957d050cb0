package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreSupabase = "supabase"
	StoreYDB      = "ydb"
)

// Race guard modes
const (
	RaceGuardNone  = "none"
	RaceGuardRedis = "redis"
)

type Config struct {
	// HTTP configuration
	HTTPPort string `env:"HTTP_PORT" envDefault:"8001"`

	// Supabase configuration
	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`
	SupabaseAnonKey    string `env:"SUPABASE_ANON_KEY"`
	// SupabaseJWTSecret enables local verification of access tokens.
	SupabaseJWTSecret string `env:"SUPABASE_JWT_SECRET"`

	// Store backend: supabase | ydb
	StoreBackend string `env:"STORE_BACKEND" envDefault:"supabase"`

	// YDB configuration
	SPYDBEndpoint         string `env:"SP_YDB_ENDPOINT"`
	SPYDBDatabasePath     string `env:"SP_YDB_DATABASE_PATH"`
	SPYDBAutoCreateTables bool   `env:"SP_YDB_AUTO_CREATE_TABLES" envDefault:"false"`

	// Admin allow-list (emails)
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`

	// S3/Storage configuration
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3Region          string `env:"S3_REGION" envDefault:"eu-central-1"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3PhotoBucket     string `env:"S3_PHOTO_BUCKET"`

	// Email configuration
	SESEndpoint        string `env:"SES_ENDPOINT"`
	SESRegion          string `env:"SES_REGION" envDefault:"eu-central-1"`
	SESAccessKeyID     string `env:"SES_ACCESS_KEY_ID"`
	SESSecretAccessKey string `env:"SES_SECRET_ACCESS_KEY"`
	EmailFrom          string `env:"EMAIL_FROM"`
	AppLoginURL        string `env:"APP_LOGIN_URL" envDefault:"https://ugcgo.ai"`

	// Telegram configuration
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAdminChatID int64  `env:"TELEGRAM_CHAT_ID"`

	// Race guard configuration
	RaceGuard string `env:"RACE_GUARD" envDefault:"none"`
	RedisURL  string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	// QuotaHold is how long a granted video keeps its slot before it must
	// show up as a completed video.
	QuotaHold time.Duration `env:"QUOTA_HOLD" envDefault:"10m"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	c.RaceGuard = strings.ToLower(strings.TrimSpace(c.RaceGuard))
	c.SupabaseURL = strings.TrimRight(strings.TrimSpace(c.SupabaseURL), "/")

	emails := make([]string, 0, len(c.AdminEmails))
	for _, e := range c.AdminEmails {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, e)
		}
	}
	c.AdminEmails = emails

	if c.S3Endpoint != "" && !strings.HasPrefix(c.S3Endpoint, "http://") && !strings.HasPrefix(c.S3Endpoint, "https://") {
		c.S3Endpoint = "https://" + c.S3Endpoint
		log.Printf("WARN: S3_ENDPOINT was missing a protocol scheme. Prepending 'https://'. New endpoint: %s", c.S3Endpoint)
	}
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreSupabase:
	case StoreYDB:
		if c.SPYDBEndpoint == "" || c.SPYDBDatabasePath == "" {
			return fmt.Errorf("SP_YDB_ENDPOINT and SP_YDB_DATABASE_PATH are required for the ydb store")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	// identity is always resolved through Supabase
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}

	switch c.RaceGuard {
	case RaceGuardNone, RaceGuardRedis:
	default:
		return fmt.Errorf("unknown RACE_GUARD %q", c.RaceGuard)
	}
	return nil
}

// SupabaseAPIKey returns the key sent in the apikey header.
func (c *Config) SupabaseAPIKey() string {
	if c.SupabaseServiceKey != "" {
		return c.SupabaseServiceKey
	}
	return c.SupabaseAnonKey
}

// PhotoStorageEnabled reports whether photo keys can be checked against S3.
func (c *Config) PhotoStorageEnabled() bool {
	return c.S3PhotoBucket != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}

// EmailEnabled reports whether gift notifications can be sent.
func (c *Config) EmailEnabled() bool {
	return c.EmailFrom != "" && c.SESAccessKeyID != "" && c.SESSecretAccessKey != ""
}
