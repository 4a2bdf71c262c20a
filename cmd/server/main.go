package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hatgame/internal/app"
	"hatgame/internal/config"
	httpTransport "hatgame/internal/transport/http"
)

//go:embed web
var webFS embed.FS

func main() {
	cfg := config.Load()

	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting hatgame server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"turnDuration", cfg.Game.TurnDuration,
		"requiredWords", cfg.Game.RequiredWords,
	)

	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		logger.Error("failed to get web subdirectory", "error", err)
		os.Exit(1)
	}

	sessions := app.NewSessionStore()
	registry := app.NewRoomRegistry(app.RegistryConfig{
		Settings:       cfg.GameSettings(),
		RoomCodeLength: cfg.Game.RoomCodeLength,
		GracePeriod:    cfg.Game.ReconnectGracePeriod,
	}, sessions, logger)
	defer registry.Close()

	gateway := app.NewGateway(registry, sessions, logger)
	server := httpTransport.NewServer(cfg, registry, gateway, logger, webContent)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
