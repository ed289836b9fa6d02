package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Parser   ParserConfig
	Webhook  WebhookConfig
	JWT      JWTConfig
	Operator OperatorConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
	PoolMinConns   int32

	MigrationsDir string
}

// StorageConfig holds the object-storage credentials. All four values are
// required; the process refuses to start without them.
type StorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
}

type ParserConfig struct {
	BaseURL string
}

type WebhookConfig struct {
	URL         string
	Environment string
	Retries     int
	RetryDelay  time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

// OperatorConfig identifies the single operator account allowed to use the
// review endpoints. The password is stored as a bcrypt hash.
type OperatorConfig struct {
	Email        string
	PasswordHash string
}

const (
	defaultParserBaseURL = "http://localhost:8000"
	defaultWebhookURL    = "https://rnd-assignment.automations-3d6.workers.dev/"

	defaultWebhookRetries    = 3
	defaultWebhookRetryDelay = 2 * time.Second
)

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "cv-intake"),
		Environment: opt("APP_ENV", "testing"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:         opt("DB_HOST", "localhost"),
		DBPort:         opt("DB_PORT", "5432"),
		DBName:         opt("DB_NAME", ""),
		DBUser:         opt("DB_USER", ""),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBSSLMode:      opt("DB_SSL_MODE", "disable"),
		ConnectTimeout: durationEnv("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:   int32(intEnv("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:   int32(intEnv("DB_POOL_MIN_CONNS", 0)),
		MigrationsDir:  opt("DB_MIGRATIONS_DIR", "migrations"),
	}

	cfg.Storage = StorageConfig{
		AccessKeyID:     req("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: req("AWS_SECRET_ACCESS_KEY"),
		Region:          req("AWS_REGION"),
		Bucket:          req("AWS_BUCKET_NAME"),
	}

	cfg.Parser = ParserConfig{
		BaseURL: opt("PARSER_BASE_URL", defaultParserBaseURL),
	}

	cfg.Webhook = WebhookConfig{
		URL:         opt("WEBHOOK_URL", defaultWebhookURL),
		Environment: opt("WEBHOOK_ENV", cfg.App.Environment),
		Retries:     intEnv("WEBHOOK_RETRIES", defaultWebhookRetries),
		RetryDelay:  durationEnv("WEBHOOK_RETRY_DELAY", defaultWebhookRetryDelay),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  durationEnv("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: durationEnv("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Operator = OperatorConfig{
		Email:        req("OPERATOR_EMAIL"),
		PasswordHash: req("OPERATOR_PASSWORD_HASH"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func intEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
