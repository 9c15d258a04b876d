package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/apresai/ikigen/internal/observability"
	"github.com/apresai/ikigen/internal/server"
)

func main() {
	logger := observability.InitLogger(os.Stdout, observability.ParseLevel(os.Getenv("LOG_LEVEL")))

	logger.Info("Ikigen server starting...", "version", server.Version)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tp, err := observability.InitTracer(ctx, "ikigen-server", server.Version)
	if err != nil {
		logger.Warn("Failed to init tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("Tracer shutdown error", "error", err)
			}
		}()
	}

	srv, err := server.New(ctx, server.DefaultConfig(), logger)
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	if err := srv.Start(ctx); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
