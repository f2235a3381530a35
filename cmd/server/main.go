package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatgate/chatgate/internal/auth"
	"github.com/chatgate/chatgate/internal/config"
	"github.com/chatgate/chatgate/internal/database"
	"github.com/chatgate/chatgate/internal/email"
	"github.com/chatgate/chatgate/internal/handler"
	"github.com/chatgate/chatgate/internal/logger"
	"github.com/chatgate/chatgate/internal/middleware"
	"github.com/chatgate/chatgate/internal/repository"
	"github.com/chatgate/chatgate/internal/router"
	"github.com/chatgate/chatgate/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("version", "0.1.0").Msg("starting ChatGate server")

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to PostgreSQL")

	// Connect to Redis
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("connected to Redis")

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Initialize primary token validation
	tokenSvc, err := auth.NewTokenService(cfg.Security.Auth)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}

	// Initialize services
	sessionSvc := service.NewTokenService(rdb, cfg.Security.Session, log)

	// Lockout alerting is optional; the gate runs fine without it
	var alertSvc service.LockoutNotifier
	if cfg.Security.Alerts.Enabled {
		sender, err := email.NewGmailSender(context.Background(), email.GmailConfig{
			CredentialsJSON: cfg.Security.Alerts.Gmail.CredentialsJSON,
			SenderAddress:   cfg.Security.Alerts.Gmail.SenderAddress,
			SenderName:      cfg.Security.Alerts.Gmail.SenderName,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize lockout alert sender")
		}
		alertSvc = service.NewAlertService(sender, cfg.Security.Alerts, log)
		log.Info().Str("recipient", cfg.Security.Alerts.Recipient).Msg("lockout alerts enabled")
	}

	securitySvc := service.NewSecurityService(db, profileRepo, eventRepo, sessionSvc, alertSvc, cfg, log)

	// Initialize handlers and middleware
	h := handler.New(db, rdb, log, cfg, securitySvc)
	mw := middleware.New(rdb, log, cfg)

	// Set up router
	r := router.New(h, mw, tokenSvc, sessionSvc, securitySvc)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
