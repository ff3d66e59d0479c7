package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultTokenURL     = "https://oauth2.googleapis.com/token"
	defaultRedirectURL  = "http://localhost:8080/google/callback"
	defaultAppURL       = "http://localhost:5173"
	defaultRedisURL     = "redis://localhost:6379/0"
	defaultHTTPAddr     = ":8080"
	defaultJWTAudience  = "authenticated"
	defaultRatePerMin   = 120
	defaultShutdownSecs = 30
)

type Config struct {
	DatabaseURL     string
	RedisURL        string
	HTTPAddr        string
	AppURL          string
	ShutdownTimeout int // seconds
	LogLevel        string

	GoogleClientID         string
	GoogleClientSecret     string
	GoogleRedirectURL      string
	GoogleTokenURL         string
	GoogleCalendarEndpoint string // empty means the public API
	GoogleTasksEndpoint    string // empty means the public API

	JWTSecret   string
	JWTAudience string

	CORSAllowedOrigins []string
	RateLimitPerMinute int
	TrustedProxies     []string // empty means X-Forwarded-For is ignored
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error in production)
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	jwtSecret := os.Getenv("AUTH_JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	googleClientID := os.Getenv("GOOGLE_CLIENT_ID")
	googleClientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if googleClientID == "" || googleClientSecret == "" {
		fmt.Println("Warning: GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET not set, Google sync will not work")
	}

	rateLimit, err := intEnv("RATE_LIMIT_PER_MINUTE", defaultRatePerMin)
	if err != nil {
		return nil, err
	}
	shutdown, err := intEnv("SHUTDOWN_TIMEOUT", defaultShutdownSecs)
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURL:     dbURL,
		RedisURL:        stringEnv("REDIS_URL", defaultRedisURL),
		HTTPAddr:        stringEnv("HTTP_ADDR", defaultHTTPAddr),
		AppURL:          stringEnv("APP_URL", defaultAppURL),
		ShutdownTimeout: shutdown,
		LogLevel:        stringEnv("LOG_LEVEL", "info"),

		GoogleClientID:         googleClientID,
		GoogleClientSecret:     googleClientSecret,
		GoogleRedirectURL:      stringEnv("GOOGLE_REDIRECT_URL", defaultRedirectURL),
		GoogleTokenURL:         stringEnv("GOOGLE_TOKEN_URL", defaultTokenURL),
		GoogleCalendarEndpoint: os.Getenv("GOOGLE_CALENDAR_ENDPOINT"),
		GoogleTasksEndpoint:    os.Getenv("GOOGLE_TASKS_ENDPOINT"),

		JWTSecret:   jwtSecret,
		JWTAudience: stringEnv("AUTH_JWT_AUDIENCE", defaultJWTAudience),

		CORSAllowedOrigins: listEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute: rateLimit,
		TrustedProxies:     listEnv("TRUSTED_PROXIES", nil),
	}, nil
}

// ShutdownDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func listEnv(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
