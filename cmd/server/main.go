package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pollpulse/pollpulse/internal/app"
	"github.com/pollpulse/pollpulse/internal/config"
	"github.com/pollpulse/pollpulse/internal/memory"
	"github.com/pollpulse/pollpulse/internal/platform/logging"
	"github.com/pollpulse/pollpulse/internal/registry"
	"github.com/pollpulse/pollpulse/internal/server"
	"github.com/pollpulse/pollpulse/internal/session"
	"github.com/pollpulse/pollpulse/internal/voting"
	"github.com/pollpulse/pollpulse/internal/websocket"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func runGracefulShutdown(srv *server.Server, sessions *session.Manager, hub *websocket.Hub) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		sessions.Stop()
		hub.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	users := memory.NewUserStore()
	sessions := session.NewManager(clock, cfg.SessionTimeout, cfg.SessionSweepInterval)
	reg := registry.New(clock)
	hub := websocket.NewHub(cfg.MaxClientsPerPoll)
	engine := voting.NewEngine(reg, clock, hub)

	appSvc := app.NewService(users, sessions, reg, engine)
	if err := appSvc.Seed(context.Background(), cfg.AdminUsername, cfg.AdminPasswordDigest, cfg.SeedSamplePolls); err != nil {
		slog.Error("Failed to seed initial data", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(cfg, appSvc, hub)

	done := runGracefulShutdown(srv, sessions, hub)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
