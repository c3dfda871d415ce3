package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/parityagent-go/internal/api"
	"github.com/mcoot/parityagent-go/internal/config"
	"github.com/mcoot/parityagent-go/internal/factory"
)

func main() {
	// Load configuration from .env and the environment
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Create application factory
	app, err := factory.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Restore any persisted state from a previous run
	if err := app.Tracker.Restore(context.Background()); err != nil {
		logger.Warn("could not restore persisted state", slog.String("error", err.Error()))
	}

	// Register with the league manager if requested and not already
	// registered from a restored snapshot
	if cfg.RegisterOnStart && !app.Tracker.Registered() {
		regCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		token, err := app.Registration.Register(regCtx)
		cancel()
		if err != nil {
			logger.Error("registration failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		app.Tracker.SetAuthToken(context.Background(), token)
		app.Builder.SetAuthToken(token)
	}

	// Create router
	router := api.NewRouter(api.RouterConfig{
		Logger: logger,
		Tools:  app.Tools,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("agent started",
		slog.String("addr", server.Addr()),
		slog.String("player_id", cfg.PlayerID),
		slog.String("strategy_mode", string(app.Engine.Mode())),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
}
