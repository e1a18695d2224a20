package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/app"
	"github.com/Fabricesimpore/ZakaMall-sub001/internal/config"
	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/logger"
	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/tracing"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger.
	log := logger.New("search-gateway", cfg.LogLevel)
	log.Info("starting search gateway",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
		slog.Bool("primary_configured", cfg.PrimaryConfigured()),
	)

	// Create a context that is cancelled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize tracing when an OTLP endpoint is configured.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := tracing.InitTracer(ctx, tracing.Config{
			ServiceName:  "search-gateway",
			OTLPEndpoint: cfg.OTLPEndpoint,
			Environment:  cfg.Environment,
			SampleRate:   1.0,
			Enabled:      true,
		})
		if err != nil {
			log.Error("failed to initialize tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error("tracer shutdown error", slog.String("error", err.Error()))
			}
		}()
	}

	// Create the application with all dependencies wired.
	application, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Run the application. This blocks until shutdown.
	if err := application.Run(ctx); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("search gateway stopped")
}
