package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/specsmith/specsmith/backend/internal/auth/http"
	"github.com/specsmith/specsmith/backend/internal/auth/service"
	"github.com/specsmith/specsmith/backend/internal/common/clock"
	"github.com/specsmith/specsmith/backend/internal/common/config"
	"github.com/specsmith/specsmith/backend/internal/common/constants"
	commoncrypto "github.com/specsmith/specsmith/backend/internal/common/crypto"
	"github.com/specsmith/specsmith/backend/internal/common/db"
	commonhttp "github.com/specsmith/specsmith/backend/internal/common/http"
	"github.com/specsmith/specsmith/backend/internal/common/logger"
	srv "github.com/specsmith/specsmith/backend/internal/common/server"
	userrepo "github.com/specsmith/specsmith/backend/internal/user/repository"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "auth", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadAuthConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), constants.DBPoolConnectTimeout)
	defer schemaCancel()
	if err := db.EnsureSchema(schemaCtx, pool); err != nil {
		log.Fatalf("failed to ensure database schema: %v", err)
	}

	hasher := commoncrypto.NewBoundedHasher(
		commoncrypto.NewBcryptHasher(constants.BcryptCost),
		cfg.HashWorkers,
		constants.DefaultHashQueueSize,
	)
	tokens := service.NewTokenIssuer(cfg.JWTSecret, constants.SessionTokenTTL, clock.NewRealClock(), log)

	authService, err := service.NewAuthService(
		userrepo.NewPgRepository(pool),
		hasher,
		commoncrypto.NewUUIDGenerator(),
		tokens,
		clock.NewRealClock(),
		log,
	)
	if err != nil {
		log.Fatalf("failed to initialize auth service: %v", err)
	}

	handler := authhttp.NewHandler(authService, cfg, log)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewCredentialRateLimiter()
	rateLimitMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/auth/signup", "/api/auth/login":
				rateLimiter.Middleware()(next).ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}

	finalHandler := rateLimitMiddleware(commonhttp.BuildBaseHandler(log, mux))

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), finalHandler)
	srv.StartWithGracefulShutdown(server, log, "auth")
}
