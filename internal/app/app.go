// Package app wires together all gateway dependencies and runs the process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/backend"
	"github.com/Fabricesimpore/ZakaMall-sub001/internal/backend/elastic"
	pgbackend "github.com/Fabricesimpore/ZakaMall-sub001/internal/backend/postgres"
	"github.com/Fabricesimpore/ZakaMall-sub001/internal/cache"
	"github.com/Fabricesimpore/ZakaMall-sub001/internal/config"
	"github.com/Fabricesimpore/ZakaMall-sub001/internal/event"
	handler "github.com/Fabricesimpore/ZakaMall-sub001/internal/handler/http"
	"github.com/Fabricesimpore/ZakaMall-sub001/internal/service"
	"github.com/Fabricesimpore/ZakaMall-sub001/internal/synonym"
	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/database"
	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/health"
	pkgkafka "github.com/Fabricesimpore/ZakaMall-sub001/pkg/kafka"
)

// App holds all running components of the search gateway.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	consumers  []*pkgkafka.Consumer
	httpServer *http.Server
}

// NewApp initializes all dependencies. The primary backend is optional: an
// empty Elasticsearch URL puts the gateway in permanent fallback mode.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Fallback backend (required).
	pool, err := database.NewPostgresPool(ctx, &cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}
	fallback := pgbackend.NewBackend(pool, logger)

	// Primary backend (optional).
	var primary backend.SearchBackend
	var esEngine *elastic.Engine
	if cfg.PrimaryConfigured() {
		esEngine, err = elastic.New(cfg.ElasticsearchURL, cfg.ElasticsearchIndex, logger)
		if err != nil {
			return nil, fmt.Errorf("init elasticsearch engine: %w", err)
		}
		primary = esEngine

		// Index creation is best-effort at startup; the gateway fails over
		// per request while the cluster is unreachable.
		if err := esEngine.EnsureIndex(ctx); err != nil {
			logger.Warn("could not ensure elasticsearch index",
				slog.String("error", err.Error()),
			)
		}
		logger.Info("elasticsearch primary backend initialized",
			slog.String("url", cfg.ElasticsearchURL),
			slog.String("index", cfg.ElasticsearchIndex),
		)
	} else {
		logger.Warn("no elasticsearch URL configured, running in permanent fallback mode")
	}

	// Cache (optional: the gateway works uncached if Redis is down).
	var store cache.Store
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled",
			slog.String("error", err.Error()),
		)
	} else {
		store = cache.NewRedisStore(redisClient)
	}

	expander := synonym.NewExpander(nil)

	gateway := service.NewGateway(primary, fallback, store, expander, service.GatewayConfig{
		SearchTTL:      cfg.SearchCacheTTL,
		SuggestTTL:     cfg.SuggestCacheTTL,
		ProbeTimeout:   cfg.ProbeTimeout,
		PrimaryTimeout: cfg.PrimaryTimeout,
	}, logger)

	invalidator := cache.NewInvalidator(noopIfNil(store), logger)
	indexer := service.NewIndexer(esEngine, invalidator)

	// Kafka consumers for catalog events.
	eventConsumer := event.NewConsumer(indexer, logger)
	var consumers []*pkgkafka.Consumer
	for _, topic := range event.Topics() {
		consumerCfg := pkgkafka.ConsumerConfig{
			Brokers:  cfg.KafkaBrokers,
			GroupID:  "search-gateway",
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6, // 10 MB
		}
		consumers = append(consumers, pkgkafka.NewConsumer(consumerCfg, eventConsumer.Handle, logger))
	}
	logger.Info("kafka consumers initialized",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.Int("topic_count", len(event.Topics())),
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", fallback.Ping)
	if esEngine != nil {
		healthHandler.Register("elasticsearch", esEngine.Ping)
	}
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
	})

	router := handler.NewRouter(gateway, indexer, healthHandler, cfg.AllowedOrigins, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		consumers:  consumers,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and Kafka consumers, blocking until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1+len(a.consumers))

	for _, c := range a.consumers {
		c := c
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// noopIfNil substitutes an inert store so the invalidator never has to
// nil-check.
func noopIfNil(store cache.Store) cache.Store {
	if store != nil {
		return store
	}
	return noopStore{}
}

type noopStore struct{}

func (noopStore) Get(context.Context, string) ([]byte, error) { return nil, cache.ErrMiss }

func (noopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (noopStore) Del(context.Context, string) error { return nil }

func (noopStore) InvalidatePattern(context.Context, string) (int, error) { return 0, nil }
