package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/finsim/ofxserve/internal/config"
	httpserver "github.com/finsim/ofxserve/internal/http"
	"github.com/finsim/ofxserve/pkg/domain"
	"github.com/finsim/ofxserve/pkg/server"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var challenges []domain.MFAChallenge
	if cfg.MFA {
		challenges = domain.StandardChallenges()
	}

	var payees []domain.SamplePayee
	if cfg.FixtureFile != "" {
		fixture, err := config.LoadFixture(cfg.FixtureFile)
		if err != nil {
			logger.Error("failed to load fixture file", "error", err)
			os.Exit(1)
		}
		if len(fixture.Challenges) > 0 {
			challenges = fixture.Challenges
		}
		if len(fixture.Payees) > 0 {
			payees = fixture.Payees
		}
		logger.Info("fixture loaded",
			"file", cfg.FixtureFile,
			"challenges", len(fixture.Challenges),
			"payees", len(fixture.Payees),
		)
	}

	// Initialize the simulated institution
	srv := server.New(server.Config{
		Logger: logger,
		Credentials: domain.Credentials{
			UserName:       cfg.UserName,
			Password:       cfg.Password,
			UserCred1Label: cfg.UserCred1Label,
			UserCred1:      cfg.UserCred1,
			UserCred2Label: cfg.UserCred2Label,
			UserCred2:      cfg.UserCred2,
		},
		AuthTokenLabel: cfg.AuthTokenLabel,
		AuthToken:      cfg.AuthToken,
		Challenges:     challenges,
		ChangePassword: cfg.ChangePassword,
		Payees:         payees,
		URL:            cfg.URL(),
		ResponseDelay:  cfg.ResponseDelay,
	})

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          logger,
		Server:          srv,
		PathPrefix:      cfg.PathPrefix,
		RateLimitConfig: cfg.RateLimit,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr, "endpoint", cfg.URL())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
