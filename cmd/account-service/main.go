package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/gobank/internal/adapter/clientservice"
	httpAdapter "github.com/iho/gobank/internal/adapter/http"
	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/adapter/messaging/kafka"
	"github.com/iho/gobank/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gobank/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobank/internal/adapter/repository/redis"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/infrastructure/eventpublisher"
	"github.com/iho/gobank/internal/infrastructure/logger"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/infrastructure/postgres"
	"github.com/iho/gobank/internal/infrastructure/redis"
	"github.com/iho/gobank/internal/infrastructure/server"
	"github.com/iho/gobank/internal/usecase"
)

const serviceName = "account-service"

func main() {
	// Load configuration
	cfg, err := config.LoadAccountService()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := newLogger(cfg.LogConfig)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("account service failed")
	}
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	l := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
		Output:  os.Stdout,
	})
	zerolog.DefaultContextLogger = &l
	return l
}

// storage bundles the repositories of one storage driver.
type storage struct {
	txManager usecase.TransactionManager
	accounts  usecase.AccountRepository
	movements usecase.MovementRepository
	outbox    usecase.OutboxRepository
	retrier   usecase.Retrier
	checks    map[string]handler.Check
	close     func()
}

func openStorage(ctx context.Context, cfg *config.AccountServiceConfig, logger zerolog.Logger, m *metrics.Metrics) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn().Msg("using in-memory storage, data is lost on restart")

		store := memory.NewStore()
		s := &storage{
			txManager: memory.NewTxManager(store),
			accounts:  memory.NewAccountRepository(store),
			movements: memory.NewMovementRepository(store),
			outbox:    memory.NewOutboxRepository(store),
			checks:    map[string]handler.Check{},
			close:     func() {},
		}
		if !cfg.OutboxEnabled {
			s.outbox = postgresRepo.NewNullOutboxRepository()
		}
		return s, nil
	}

	if cfg.MigrateOnStart {
		path := filepath.Join(cfg.MigrationsPath, postgres.AccountMigrations)
		if err := postgres.RunMigrations(cfg.DatabaseURL, path, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info().Msg("connected to postgres")

	s := &storage{
		txManager: postgresRepo.NewTxManager(pool),
		accounts:  postgresRepo.NewAccountRepository(pool),
		movements: postgresRepo.NewMovementRepository(pool),
		outbox:    postgresRepo.NewOutboxRepository(pool),
		retrier:   postgresRepo.NewRetrier(logger, m),
		checks:    map[string]handler.Check{"postgres": pool.Ping},
		close:     pool.Close,
	}
	if !cfg.OutboxEnabled {
		s.outbox = postgresRepo.NewNullOutboxRepository()
	}

	return s, nil
}

// newClientDirectory returns the client-service lookup, cached in Redis when
// a client is available.
func newClientDirectory(cfg *config.AccountServiceConfig, rdb *goredis.Client, logger zerolog.Logger, m *metrics.Metrics) usecase.ClientDirectory {
	remote := clientservice.New(clientservice.Config{
		BaseURL: cfg.ClientServiceURL,
		Timeout: cfg.ClientServiceTimeout,
		Logger:  logger,
	})
	if rdb == nil {
		return remote
	}

	return clientservice.NewCachedDirectory(remote, redisRepo.NewCache(rdb, "clients"), cfg.ClientCacheTTL, logger, m)
}

// newEventPublisher relays outbox events to Kafka, or to the log when no
// brokers are configured.
func newEventPublisher(cfg *config.AccountServiceConfig, outbox usecase.OutboxRepository, logger zerolog.Logger, m *metrics.Metrics) (*eventpublisher.EventPublisher, func(), error) {
	var (
		publisher eventpublisher.Publisher = eventpublisher.NewLogPublisher(logger)
		closeFn                            = func() {}
	)

	if len(cfg.KafkaBrokers) > 0 {
		kp, err := kafka.NewPublisher(kafka.Config{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, err
		}
		publisher = kp
		closeFn = func() {
			if err := kp.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close kafka writer")
			}
		}
	}

	ep := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outbox,
		Publisher:  publisher,
		Logger:     logger,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})

	return ep, closeFn, nil
}

func run(ctx context.Context, cfg *config.AccountServiceConfig, logger zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	store, err := openStorage(ctx, cfg, logger, m)
	if err != nil {
		return err
	}
	defer store.close()

	// Redis is optional: it backs idempotency keys and the client lookup cache.
	var (
		rdb              *goredis.Client
		idempotencyStore usecase.IdempotencyStore
	)
	if cfg.RedisURL != "" {
		rdb, err = redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info().Msg("connected to redis")

		idempotencyStore = redisRepo.NewIdempotencyStore(rdb)
		store.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	idGen := postgresRepo.NewULIDGenerator()
	clients := newClientDirectory(cfg, rdb, logger, m)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(store.txManager, store.accounts, store.movements, store.outbox, idGen, m)
	movementUC := usecase.NewMovementUseCase(store.txManager, store.accounts, store.movements, store.outbox, idGen, store.retrier, m,
		usecase.MovementConfig{RejectNegativeAmounts: cfg.RejectNegativeAmounts})
	reportUC := usecase.NewReportUseCase(clients, store.accounts, store.movements, m)
	reconciliationUC := usecase.NewReconciliationUseCase(store.accounts, store.movements, m)

	if cfg.OutboxEnabled {
		ep, closePublisher, err := newEventPublisher(cfg, store.outbox, logger, m)
		if err != nil {
			return fmt.Errorf("create event publisher: %w", err)
		}
		defer closePublisher()

		go func() {
			if err := ep.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	go server.SweepVisitors(ctx, rateLimiter, time.Minute, 3*time.Minute)

	router := httpAdapter.NewAccountRouter(httpAdapter.AccountRouterConfig{
		CommonConfig: httpAdapter.CommonConfig{
			HealthHandler:      handler.NewHealthHandler(store.checks),
			Logger:             logger,
			Metrics:            m,
			MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			RateLimiter:        rateLimiter,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		AccountHandler:        handler.NewAccountHandler(accountUC),
		MovementHandler:       handler.NewMovementHandler(movementUC),
		ReportHandler:         handler.NewReportHandler(reportUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
	})

	return server.Run(ctx, cfg.HTTPConfig, router, logger)
}
