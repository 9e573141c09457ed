package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"bridgerh/internal/app"
	"bridgerh/internal/config"
	"bridgerh/internal/database"
	apphttp "bridgerh/internal/http"
	"bridgerh/internal/http/handlers"
	"bridgerh/internal/http/metrics"
	httpmw "bridgerh/internal/http/middleware"
	"bridgerh/internal/http/response"
	"bridgerh/internal/integration/mailer"
	"bridgerh/internal/integration/storage"
	"bridgerh/internal/observability"
	"bridgerh/internal/repository/postgres"
	"bridgerh/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()

	if err := database.Migrate(cfg.MigrationsDir, cfg.PostgresDSN); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	candidateRepo := postgres.NewCandidateRepository(db)
	jwtProvider := security.NewJWTProvider(cfg.SessionSecret)
	collabClient := &http.Client{Timeout: cfg.CollaboratorTimeout}

	// Collaborators are picked once at startup; unconfigured ones get the
	// no-op variant.
	var mail mailer.Mailer = mailer.Noop{}
	if cfg.SendGridAPIKey != "" && cfg.SendGridFrom != "" {
		mail = mailer.NewSendGridClient("", cfg.SendGridAPIKey, cfg.SendGridFrom, cfg.SendGridAdminTo, collabClient)
		logger.Info("sendgrid mailer configured", "from", cfg.SendGridFrom)
	} else {
		logger.Info("sendgrid not configured, notifications disabled")
	}
	var files storage.Uploader = storage.Noop{}
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		files = storage.NewCloudinaryClient("", cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, collabClient)
		logger.Info("cloudinary storage configured", "cloud", cfg.CloudinaryCloudName)
	} else {
		logger.Info("cloudinary not configured, resumes kept as filename only")
	}

	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	if cfg.RedisAddr != "" {
		limiter = httpmw.NewRedisLimiter(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		logger.Info("redis rate limiter configured", "addr", cfg.RedisAddr)
	}

	authService := app.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminPasswordHash, jwtProvider, cfg.SessionTTL, logger)
	candidateService := app.NewCandidateService(candidateRepo, mail, files, logger, cfg.CollaboratorTimeout)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	authHandler := handlers.NewAuthHandler(authService, limiter, collector, cfg.IsProduction())
	candidateHandler := handlers.NewCandidateHandler(candidateService, limiter, collector)
	middleware := httpmw.NewAuthMiddleware(authService)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:      authHandler,
		CandidateHandler: candidateHandler,
		MetricsHandler:   handlers.NewMetricsHandler(collector),
		AuthMiddleware:   middleware,
		Metrics:          collector,
		RequestTimeout:   cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
