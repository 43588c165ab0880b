package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DevJWTSecret is the fallback signing key used when JWT_SECRET is unset.
// It is rejected in production.
const DevJWTSecret = "fallback-secret-key-for-dev-only"

// Config holds application configuration. It is built once at process start
// by Load and passed by pointer to the components that need it.
type Config struct {
	// Server
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	// Database
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"finview"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"finview"`
	DBName     string `env:"DB_NAME" envDefault:"finview"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"finview.db"`

	// JWT
	JWTSecret        string        `env:"JWT_SECRET" envDefault:"fallback-secret-key-for-dev-only"`
	JWTExpirationDur time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`
	CookieSecure     bool          `env:"COOKIE_SECURE" envDefault:"false"`

	// Comma-separated list of allowed origins; empty allows any origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Redis backs the auth rate limiter. Empty disables rate limiting.
	RedisURL               string `env:"REDIS_URL" envDefault:""`
	RateLimitAuthPerMinute int    `env:"RATE_LIMIT_AUTH_PER_MINUTE" envDefault:"10"`

	// Mail (password reset OTP)
	SMTPHost     string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string        `env:"SMTP_USERNAME"`
	SMTPPassword string        `env:"SMTP_PASSWORD"`
	MailFrom     string        `env:"MAIL_FROM"`
	OTPExpiresIn time.Duration `env:"OTP_EXPIRES_IN" envDefault:"10m"`

	// Google sign-in. Empty disables the endpoint.
	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	// Recompute totals and category amounts server-side on save instead of
	// persisting the client's values as submitted.
	BudgetRecomputeOnSave bool `env:"BUDGET_RECOMPUTE_ON_SAVE" envDefault:"false"`
}

// Load loads configuration from the .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUsername
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be expressed as struct tags.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (use postgres or sqlite)", c.DBDriver)
	}
	if c.JWTExpirationDur <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	if c.OTPExpiresIn <= 0 {
		return errors.New("OTP_EXPIRES_IN must be positive")
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == DevJWTSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// MailConfigured reports whether SMTP credentials are present.
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

// PostgresDSN returns the key/value connection string used by the gorm driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// PostgresURL returns the URL form of the connection string used by golang-migrate.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// AllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) AllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))
	for _, origin := range origins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
