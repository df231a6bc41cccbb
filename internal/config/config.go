package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode        string `env:"APP_MODE" envDefault:"dev"`
	Port           string `env:"PORT" envDefault:"8080"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	BcryptCost     int    `env:"BCRYPT_COST" envDefault:"12"`
	SeedOnStartup  bool   `env:"SEED_ON_STARTUP" envDefault:"true"`
	HealthCron     string `env:"HEALTH_CRON" envDefault:"@every 1m"`
	RedisURL       string `env:"REDIS_URL"`
	// Requests per minute per IP; 0 disables the limiter
	RateLimitMax     int `env:"RATE_LIMIT_MAX" envDefault:"100"`
	AuthRateLimitMax int `env:"AUTH_RATE_LIMIT_MAX" envDefault:"10"`

	// Mode-specific sections, read with a DEV_ or PROD_ prefix
	Database DatabaseConfig
	JWT      JWTConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver       string `env:"DB_DRIVER" envDefault:"mysql"`
	Host         string `env:"DB_HOST" envDefault:"localhost"`
	Port         string `env:"DB_PORT" envDefault:"3306"`
	User         string `env:"DB_USER" envDefault:"root"`
	Password     string `env:"DB_PASS"`
	DBName       string `env:"DB_NAME" envDefault:"statefin"`
	SSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	Path         string `env:"DB_PATH" envDefault:"statefin.db"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
}

// JWTConfig holds token signing configuration. Lifetimes are in milliseconds
// and must be whole seconds, since token expiry is encoded in seconds.
type JWTConfig struct {
	Secret              string `env:"JWT_SECRET"`
	ExpirationMs        int64  `env:"JWT_EXPIRATION_MS" envDefault:"86400000"`
	RefreshExpirationMs int64  `env:"JWT_REFRESH_EXPIRATION_MS" envDefault:"604800000"`
}

// AccessTTL returns the access token lifetime
func (j JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.ExpirationMs) * time.Millisecond
}

// RefreshTTL returns the refresh token lifetime
func (j JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshExpirationMs) * time.Millisecond
}

const devJWTSecret = "statefin-dev-secret-do-not-use-in-production"

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	AppConfig = cfg

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s]", cfg.AppMode, cfg.Database.Driver)
	return cfg, nil
}

// Parse builds a Config from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// trim spaces for Windows compatibility
	cfg.AppMode = strings.TrimSpace(cfg.AppMode)
	if cfg.AppMode != "dev" && cfg.AppMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", cfg.AppMode)
	}

	opts := env.Options{Prefix: modePrefix(cfg.AppMode)}
	if err := env.ParseWithOptions(&cfg.Database, opts); err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if err := env.ParseWithOptions(&cfg.JWT, opts); err != nil {
		return nil, fmt.Errorf("failed to parse jwt config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid %sDB_DRIVER: '%s' (must be mysql, postgres or sqlite)", modePrefix(c.AppMode), c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		if c.IsProd() {
			return fmt.Errorf("%sJWT_SECRET is required in prod mode", modePrefix(c.AppMode))
		}
		c.JWT.Secret = devJWTSecret
	}
	if c.JWT.ExpirationMs < 0 || c.JWT.RefreshExpirationMs < 0 {
		return fmt.Errorf("token lifetimes must not be negative")
	}
	// exp is a NumericDate in whole seconds
	if c.JWT.ExpirationMs%1000 != 0 || c.JWT.RefreshExpirationMs%1000 != 0 {
		return fmt.Errorf("token lifetimes must be whole seconds, got %dms and %dms", c.JWT.ExpirationMs, c.JWT.RefreshExpirationMs)
	}
	return nil
}

// modePrefix returns the env prefix for mode-specific keys
func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.AllowedOrigins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://statefin.kg"
	}
	return c.AllowedOrigins
}
