package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/unifind/unifind/application/usecase"
	"github.com/unifind/unifind/infrastructure/config"
	"github.com/unifind/unifind/infrastructure/http/handler"
	"github.com/unifind/unifind/infrastructure/http/middleware"
	"github.com/unifind/unifind/infrastructure/http/router"
	"github.com/unifind/unifind/infrastructure/persistence/cache"
	"github.com/unifind/unifind/infrastructure/persistence/gormstore"
	"github.com/unifind/unifind/infrastructure/persistence/postgres"
	"github.com/unifind/unifind/infrastructure/service/jwt"
	"github.com/unifind/unifind/infrastructure/service/logger"
	"github.com/unifind/unifind/infrastructure/service/password"
	"github.com/unifind/unifind/infrastructure/service/ratelimit"
	"github.com/unifind/unifind/infrastructure/service/revocation"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "unifind-api",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		structuredLogger.Error(ctx, "Failed to ping database", err, nil)
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	// gorm shares the pool opened above.
	gormLogLevel := gormlogger.Warn
	if cfg.IsProduction() {
		gormLogLevel = gormlogger.Error
	}
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		log.Fatalf("Failed to initialize ORM: %v", err)
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to connect to redis", err, nil)
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// Repositories and services
	retryPolicy := postgres.RetryPolicy{MaxAttempts: cfg.DBMaxRetries, Unit: cfg.DBRetryBackoff}
	userRepo := postgres.NewUserRepository(db, retryPolicy, structuredLogger.WithFields(map[string]interface{}{"component": "users"}))
	universityRepo := gormstore.NewUniversityRepository(gormDB)

	tokenService, err := jwt.NewJWTService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	passwordService := password.NewBcryptPasswordService(cfg.BcryptCost)
	revocationStore := revocation.NewRedisStore(redisClient, cfg.RevocationTTL)
	rateLimitService := ratelimit.NewRateLimitService(ratelimit.RateLimitConfig{
		Enabled:       cfg.RateLimitEnabled,
		IPAttempts:    cfg.RateLimitIPAttempts,
		IPWindow:      cfg.RateLimitIPWindow,
		BlockDuration: cfg.RateLimitBlockDuration,
	}, redisClient, structuredLogger.WithFields(map[string]interface{}{"component": "ratelimit"}))

	// Use cases
	tokenGuard := usecase.NewTokenGuard(tokenService, revocationStore, structuredLogger)
	sessionResolver := usecase.NewSessionResolver(userRepo, structuredLogger)
	authUseCase := usecase.NewAuthUseCase(userRepo, tokenService, passwordService, revocationStore, structuredLogger, usecase.AuthConfig{
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		RevocationTTL:   cfg.RevocationTTL,
		AutoVerify:      cfg.SignupAutoVerify,
	})
	universityUseCase := usecase.NewUniversityUseCase(universityRepo, structuredLogger)

	httpHandler := router.New(router.Dependencies{
		Auth:         handler.NewAuthHandler(authUseCase),
		Universities: handler.NewUniversityHandler(universityUseCase),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": db.PingContext,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		}),
		AuthGuard: middleware.NewAuthMiddleware(tokenGuard, sessionResolver),
		RateLimit: middleware.NewRateLimitMiddleware(rateLimitService, middleware.RateLimitPolicy{
			Attempts:          cfg.RateLimitIPAttempts,
			Window:            cfg.RateLimitIPWindow,
			BlockDuration:     cfg.RateLimitBlockDuration,
			TrustProxyHeaders: cfg.RateLimitTrustProxy,
		}, structuredLogger),
		Logger:               structuredLogger,
		CorrelationIDHeader:  cfg.LogCorrelationIDHeader,
		EnableRequestLog:     cfg.LogEnableRequestLog,
		CORSEnabled:          cfg.CORSEnabled && len(cfg.CORSAllowedOrigins) > 0,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		CORSAllowCredentials: cfg.CORSAllowCredentials,
	})

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		structuredLogger.Info(ctx, "Starting server", map[string]interface{}{
			"addr": server.Addr,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		structuredLogger.Error(ctx, "Server failed to start", err, map[string]interface{}{
			"addr": server.Addr,
		})
	}

	structuredLogger.Info(ctx, "Shutting down server...", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "Server exited", nil)
}
