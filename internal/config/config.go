package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/swaritsharma001/welness-studio/pkg/config"
)

// Config holds all configuration for the studio backend.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"studio"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"studio_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"studio"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`

	// Payment provider selection: "ziina" or "mock".
	PaymentProvider string `env:"PAYMENT_PROVIDER" envDefault:"ziina"`

	// Ziina payment provider
	ZiinaBaseURL    string `env:"ZIINA_BASE_URL" envDefault:"https://api-v2.ziina.com"`
	ZiinaAPIKey     string `env:"ZIINA_API_KEY" envDefault:""`
	ZiinaSuccessURL string `env:"ZIINA_SUCCESS_URL" envDefault:""`
	ZiinaCancelURL  string `env:"ZIINA_CANCEL_URL" envDefault:""`
	ZiinaFailureURL string `env:"ZIINA_FAILURE_URL" envDefault:""`
	ZiinaTestMode   bool   `env:"ZIINA_TEST_MODE" envDefault:"true"`

	// Caching
	CartTTL         time.Duration `env:"CART_TTL" envDefault:"720h"`
	IntentStatusTTL time.Duration `env:"INTENT_STATUS_TTL" envDefault:"30s"`

	// Rate limiting (auth endpoints)
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	if cfg.PaymentProvider != "ziina" && cfg.PaymentProvider != "mock" {
		return nil, fmt.Errorf("unknown payment provider: %q", cfg.PaymentProvider)
	}

	// In non-development environments, require an explicitly set, strong JWT
	// secret and a real payment key.
	if cfg.Environment != "development" {
		if cfg.JWTSecret == "change-this-to-a-secure-secret" {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
		if cfg.PaymentProvider == "ziina" && cfg.ZiinaAPIKey == "" {
			return nil, fmt.Errorf("ZIINA_API_KEY must be set in %q mode", cfg.Environment)
		}
	}

	return cfg, nil
}

// CookieSecure reports whether the credential cookie should carry the Secure
// flag.
func (c *Config) CookieSecure() bool {
	return c.Environment != "development"
}
