package constants

import "time"

const (
	PasswordMinLength  = 6
	PasswordMaxLength  = 72
	NameMaxLength      = 100
	EmailMaxLength     = 254
	JWTSecretMinLength = 32

	BcryptCost = 12

	SessionTokenTTL = 7 * 24 * time.Hour

	SessionCookieName = "auth-token"

	DefaultMaxRequestSize = 1 << 20

	DefaultHashWorkers   = 4
	DefaultHashQueueSize = 64

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "8081"
	DefaultRequestTimeout = 5 * time.Second

	RateLimitCleanupInterval = 5 * time.Minute

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
