// Command api serves the pricing plan catalog, tier presets and quote engine
// over HTTP.
//
// With DATABASE_URL unset the catalog lives in memory, which is enough for
// local development. REDIS_URL enables the quote cache and
// PLAN_EVENTS_QUEUE_URL sends plan and tier changes to SQS.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/api/handlers"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/billing"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/cache"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/config"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/core"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/db"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/events"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/memstore"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/metrics"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// collector is what both the HTTP chassis and the quote service record into.
type collector interface {
	core.MetricsCollector
	billing.QuoteMetrics
}

func run() error {
	cfg, err := config.LoadConfig(secretProvider())
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("pricing API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg == nil {
			c, err := config.LoadAWSConfig(ctx, cfg.AWS)
			if err != nil {
				return aws.Config{}, err
			}
			awsCfg = &c
		}
		return *awsCfg, nil
	}

	plans, tiers, err := openStores(ctx, cfg, srv, logger)
	if err != nil {
		return err
	}

	var quoteCache billing.QuoteCache
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(cfg.Redis.URL.Unmask())
		if err != nil {
			return fmt.Errorf("configuring redis: %w", err)
		}
		qc := cache.NewQuoteCache(client, cfg.Redis.QuoteTTL, logger)
		quoteCache = qc
		srv.HealthProbes = append(srv.HealthProbes, core.PingProbe("quote_cache", qc))
		srv.OnShutdown = append(srv.OnShutdown, func(context.Context) error { return client.Close() })
		logger.Info("quote cache enabled", "ttl", cfg.Redis.QuoteTTL)
	}

	var publisher billing.ChangePublisher = events.NewLogPublisher(logger)
	if cfg.AWS.PlanEventsQueueURL != "" {
		ac, err := loadAWS()
		if err != nil {
			return err
		}
		publisher = events.NewSQSPublisher(sqs.NewFromConfig(ac), cfg.AWS.PlanEventsQueueURL, logger)
		logger.Info("publishing change events to SQS", "queue_url", cfg.AWS.PlanEventsQueueURL)
	}

	var recorder collector = metrics.Nop{}
	switch cfg.Observability.MetricsBackend {
	case "prometheus":
		p := metrics.NewPrometheus(cfg.Observability.MetricNamespace)
		recorder = p
		srv.MetricsHandler = p.Handler()
	case "cloudwatch":
		ac, err := loadAWS()
		if err != nil {
			return err
		}
		recorder = metrics.NewCloudWatch(cloudwatch.NewFromConfig(ac), cfg.Observability.MetricNamespace, logger)
	}
	srv.Metrics = recorder

	planRegistry := billing.NewPlanRegistry(plans, publisher, logger)
	tierRegistry := billing.NewTierRegistry(tiers, publisher, logger)
	recommender := billing.NewTierRecommender(tierRegistry)
	quotes := billing.NewQuoteService(planRegistry, tierRegistry, quoteCache, recorder, logger)

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		handlers.NewPlanHandler(planRegistry, logger).RegisterRoutes,
		handlers.NewTierHandler(tierRegistry, recommender, logger).RegisterRoutes,
		handlers.NewQuoteHandler(quotes, srv.Validator, logger).RegisterRoutes,
	)
	srv.MountRoutes()

	return serve(ctx, srv, cfg, logger)
}

// openStores picks Postgres when DATABASE_URL is set and the memory store
// otherwise.
func openStores(ctx context.Context, cfg *config.Config, srv *core.Server, logger *slog.Logger) (types.PlanRepository, types.TierRepository, error) {
	if !cfg.Database.Enabled() {
		logger.Warn("DATABASE_URL not set; using in-memory catalog")
		plans := memstore.NewPlanStore()
		srv.HealthProbes = append(srv.HealthProbes, core.PingProbe("catalog", plans))
		return plans, memstore.NewTierStore(), nil
	}

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	srv.OnShutdown = append(srv.OnShutdown, func(context.Context) error {
		pool.Close()
		return nil
	})
	srv.HealthProbes = append(srv.HealthProbes, core.PingProbe("database", pool))

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, pool, "up"); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("database migrations applied")
	}

	return db.NewPlanRepository(pool), db.NewTierRepository(pool), nil
}

func serve(ctx context.Context, srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + strconv.Itoa(cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped cleanly")
	return nil
}

// secretProvider returns the SSM provider outside local development. The
// region comes from the environment because configuration is not loaded yet.
func secretProvider() config.SecretProvider {
	if os.Getenv("APP_ENV") == "local" {
		return nil
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	return config.NewSSMProvider(region, os.Getenv("AWS_ENDPOINT_URL"))
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
