// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"mandi-workers/internal/api"
	"mandi-workers/internal/common/camunda"
	"mandi-workers/internal/common/config"
	"mandi-workers/internal/common/database"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/common/observability"
	"mandi-workers/internal/mandi"
	"mandi-workers/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func setupSentry(cfg *config.Config, log *zap.Logger) bool {
	if cfg.Observability.SentryDSN == "" {
		return false
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Observability.SentryDSN,
		Environment:      cfg.App.Environment,
		Release:          cfg.App.Version,
		EnableTracing:    true,
		TracesSampleRate: cfg.Observability.SampleRate,
	}); err != nil {
		log.Error("sentry initialization failed", zap.Error(err))
		return false
	}
	return true
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	log, zapLog, err := logger.NewWithOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		bootLog.Fatal("logger init failed", zap.Error(err))
	}
	defer zapLog.Sync()

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.Observability)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(ctx)
	}()

	sentryEnabled := setupSentry(cfg, zapLog)
	if sentryEnabled {
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.AutoMigrate {
		if err := pg.Migrate(ctx); err != nil {
			zapLog.Fatal("postgres migration failed", zap.Error(err))
		}
		zapLog.Info("PostgreSQL schema migrated")
	}

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	if err := esClient.EnsureIndex(ctx, cfg.Mandi.ListingsIndex, database.ListingsMapping); err != nil {
		zapLog.Fatal("listings index setup failed", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Redis ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Seed data and activity registry ---
	catalog, err := mandi.LoadCatalog(cfg.Mandi.CatalogPath)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	reg, err := registry.LoadRegistry(cfg.Mandi.RegistryPath)
	if err != nil {
		zapLog.Fatal("registry load failed", zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("registry invalid", zap.Error(err))
	}

	// --- Workers ---
	registrations, err := buildWorkers(ctx, deps{
		cfg:      cfg,
		catalog:  catalog,
		registry: reg,
		pg:       pg,
		es:       esClient,
		redis:    redis,
		log:      log,
	})
	if err != nil {
		zapLog.Fatal("worker setup failed", zap.Error(err))
	}

	var jobWorkers []worker.JobWorker
	for _, r := range registrations {
		if activity, err := reg.FindByTaskType(r.taskType); err != nil {
			zapLog.Warn("worker has no registry entry", zap.String("taskType", r.taskType))
		} else if !activity.Completed() {
			zapLog.Warn("starting worker not marked completed",
				zap.String("taskType", r.taskType),
				zap.String("status", activity.ImplementationStatus))
		}
		jw := camunda.StartWorker(zeebe.GetClient(), r.taskType, config.GetWorkerConfig(cfg, r.taskType), r.handle, obs, log)
		if jw != nil {
			jobWorkers = append(jobWorkers, jw)
		}
	}
	zapLog.Info("Workers registered", zap.Int("started", len(jobWorkers)), zap.Int("total", len(registrations)))

	// --- Ops & preview API ---
	defaultMode, err := mandi.ParseRankMode(cfg.Mandi.DefaultMode)
	if err != nil {
		zapLog.Fatal("invalid default rank mode", zap.Error(err))
	}
	router := api.NewRouter(api.Options{
		ServiceName: cfg.Observability.ServiceName,
		Catalog:     catalog,
		DefaultMode: defaultMode,
		MaxItems:    cfg.Mandi.MaxItems,
		Checks: map[string]api.Check{
			"zeebe":    zeebe.HealthCheck,
			"postgres": pg.Ping,
			"redis":    redis.Ping,
			"elasticsearch": func(context.Context) error {
				return esClient.Ping()
			},
		},
		Server: cfg.Server,
		Sentry: sentryEnabled,
		Logger: log,
	})

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	for _, jw := range jobWorkers {
		jw.Close()
		jw.AwaitClose()
	}

	zapLog.Info("Worker manager stopped")
}
