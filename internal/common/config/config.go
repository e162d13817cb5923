package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/specsmith/specsmith/backend/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("JWT_SECRET must be at least 32 bytes")
)

type AuthConfig struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	Environment    string
	RequestTimeout time.Duration
	HashWorkers    int
}

// LoadAuthConfig reads configuration from the environment, optionally seeded
// from a .env file in the working directory. A missing or weak JWT_SECRET is a
// startup failure: the service never falls back to a built-in signing key.
func LoadAuthConfig() (AuthConfig, error) {
	_ = godotenv.Load()

	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return AuthConfig{}, err
	}

	if len(jwtSecret) < constants.JWTSecretMinLength {
		return AuthConfig{}, fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(jwtSecret))
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{
		HTTPPort:       getEnv("AUTH_HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		Environment:    strings.ToLower(getEnv("ENVIRONMENT", "development")),
		RequestTimeout: getDurationEnv("AUTH_REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		HashWorkers:    getIntEnv("AUTH_HASH_WORKERS", constants.DefaultHashWorkers),
	}, nil
}

func (c AuthConfig) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return fallback
	}
	return i
}
