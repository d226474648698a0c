package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Mongo         MongoConfig
	Redis         RedisConfig
	Auth          AuthConfig
	RateLimit     RateLimitConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// MongoConfig holds MongoDB document store configuration
type MongoConfig struct {
	URI      string
	Database string

	// OpTimeout bounds every driver operation
	OpTimeout time.Duration
}

// RedisConfig holds Redis token cache configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig holds credential issuance and verification configuration
type AuthConfig struct {
	// TokenTTL bounds how long a cache entry may vouch for a token
	TokenTTL time.Duration

	// InternalSecret guards service-to-service endpoints. When empty,
	// every internal request is rejected.
	InternalSecret string
}

// RateLimitConfig holds request admission configuration
type RateLimitConfig struct {
	// DevMultiplier scales every route limit outside production
	DevMultiplier int

	// TrustedProxyHops is how many proxy-appended X-Forwarded-For entries
	// to trust when resolving the client address
	TrustedProxyHops int
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env if it exists (backend/.env when run from project root)
	_ = godotenv.Load("backend/.env")
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSOrigins:     []string{getEnv("FRONT_END_URL", "http://localhost:3000")},
		},
		Mongo: MongoConfig{
			URI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:  getEnv("MONGODB_DATABASE", "cardfolio"),
			OpTimeout: getEnvAsDuration("MONGODB_OP_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			TokenTTL:       getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
			InternalSecret: getEnv("INTERNAL_API_SECRET", ""),
		},
		RateLimit: RateLimitConfig{
			DevMultiplier:    getEnvAsInt("RATE_LIMIT_DEV_MULTIPLIER", 100),
			TrustedProxyHops: getEnvAsInt("TRUSTED_PROXY_HOPS", 1),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongodb URI is required: set MONGODB_URI")
	}
	if _, err := url.Parse(c.Mongo.URI); err != nil {
		return fmt.Errorf("mongodb URI is invalid: %w", err)
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongodb database name is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required: set REDIS_ADDR")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}

	if c.IsProduction() && c.Auth.InternalSecret == "" {
		return fmt.Errorf("internal API secret is required in production")
	}

	if c.RateLimit.TrustedProxyHops < 0 {
		return fmt.Errorf("trusted proxy hops cannot be negative")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// EffectiveRateLimitMultiplier returns the limit multiplier for the current
// environment. Production always runs the configured limits unchanged.
func (c *Config) EffectiveRateLimitMultiplier() int {
	if c.IsProduction() {
		return 1
	}
	if c.RateLimit.DevMultiplier < 1 {
		return 1
	}
	return c.RateLimit.DevMultiplier
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogString returns a safe connection description for logging (no credentials)
func (c *MongoConfig) LogString() string {
	u, err := url.Parse(c.URI)
	if err != nil {
		return "host=<invalid MONGODB_URI>"
	}
	return fmt.Sprintf("host=%s database=%s", u.Host, c.Database)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
