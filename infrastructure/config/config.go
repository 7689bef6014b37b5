package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string

	JWTSecret       string
	JWTAlgorithm    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	JWTLeeway       time.Duration
	RevocationTTL   time.Duration

	RedisURL string

	DBMaxRetries   int
	DBRetryBackoff time.Duration

	SignupAutoVerify bool
	BcryptCost       int

	ServerPort  string
	ServerHost  string
	Environment string

	LogLevel               string
	LogFormat              string
	LogCorrelationIDHeader string
	LogEnableRequestLog    bool

	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	RateLimitEnabled       bool
	RateLimitIPAttempts    int
	RateLimitIPWindow      time.Duration
	RateLimitBlockDuration time.Duration
	RateLimitTrustProxy    bool
}

var (
	ErrMissingDatabaseURL  = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret    = errors.New("JWT_SECRET is required")
	ErrInvalidTokenTTL     = errors.New("invalid token TTL format")
	ErrInvalidJWTAlgorithm = errors.New("invalid JWT algorithm")
	ErrInvalidRetryPolicy  = errors.New("DB_MAX_RETRIES must be at least 1")
)

// Load reads configuration from the environment, honouring a .env file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		JWTAlgorithm:           getEnvOrDefault("JWT_ALG", "HS256"),
		RedisURL:               getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		DBMaxRetries:           getEnvOrDefaultInt("DB_MAX_RETRIES", 3),
		DBRetryBackoff:         getEnvOrDefaultDuration("DB_RETRY_BACKOFF", time.Second),
		SignupAutoVerify:       getEnvOrDefaultBool("SIGNUP_AUTO_VERIFY", true),
		BcryptCost:             getEnvOrDefaultInt("BCRYPT_COST", 10),
		ServerPort:             getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:             getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
		Environment:            getEnvOrDefault("ENV", "development"),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		LogCorrelationIDHeader: getEnvOrDefault("LOG_CORRELATION_ID_HEADER", "X-Correlation-ID"),
		LogEnableRequestLog:    getEnvOrDefaultBool("LOG_ENABLE_REQUEST_LOG", true),
		CORSEnabled:            getEnvOrDefaultBool("CORS_ENABLED", true),
		CORSAllowCredentials:   getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowedOrigins:     parseAllowedOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "")),
		RateLimitEnabled:       getEnvOrDefaultBool("RATE_LIMIT_ENABLED", true),
		RateLimitIPAttempts:    getEnvOrDefaultInt("RATE_LIMIT_IP_ATTEMPTS", 10),
		RateLimitTrustProxy:    getEnvOrDefaultBool("RATE_LIMIT_TRUST_PROXY", false),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if !validAlgorithm(cfg.JWTAlgorithm) {
		return nil, ErrInvalidJWTAlgorithm
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.DBMaxRetries < 1 {
		return nil, ErrInvalidRetryPolicy
	}

	var err error
	if cfg.AccessTokenTTL, err = parseTokenTTL(getEnvOrDefault("JWT_ACCESS_TOKEN_TTL", "18000")); err != nil {
		return nil, ErrInvalidTokenTTL
	}
	if cfg.RefreshTokenTTL, err = parseTokenTTL(getEnvOrDefault("JWT_REFRESH_TOKEN_TTL", "172800")); err != nil {
		return nil, ErrInvalidTokenTTL
	}
	if cfg.JWTLeeway, err = parseTokenTTL(getEnvOrDefault("JWT_LEEWAY", "0")); err != nil {
		return nil, ErrInvalidTokenTTL
	}
	if cfg.RevocationTTL, err = parseTokenTTL(getEnvOrDefault("REVOCATION_TTL", "18000")); err != nil {
		return nil, ErrInvalidTokenTTL
	}
	if cfg.RateLimitIPWindow, err = parseTokenTTL(getEnvOrDefault("RATE_LIMIT_IP_WINDOW", "900")); err != nil {
		return nil, ErrInvalidTokenTTL
	}
	if cfg.RateLimitBlockDuration, err = parseTokenTTL(getEnvOrDefault("RATE_LIMIT_BLOCK_DURATION", "1800")); err != nil {
		return nil, ErrInvalidTokenTTL
	}

	return cfg, nil
}

// Address is the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func validAlgorithm(alg string) bool {
	switch alg {
	case "HS256", "HS384", "HS512":
		return true
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// getEnvOrDefaultDuration accepts plain seconds or a Go duration string.
func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return time.Duration(n) * time.Second
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return d
	}
	return defaultValue
}

func parseTokenTTL(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if seconds < 0 {
		return 0, ErrInvalidTokenTTL
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseAllowedOrigins(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
