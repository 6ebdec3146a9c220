package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/gobank/internal/adapter/http"
	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gobank/internal/adapter/repository/postgres"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/infrastructure/logger"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/infrastructure/postgres"
	"github.com/iho/gobank/internal/infrastructure/server"
	"github.com/iho/gobank/internal/usecase"
)

const serviceName = "client-service"

func main() {
	// Load configuration
	cfg, err := config.LoadClientService()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
		Output:  os.Stdout,
	})
	zerolog.DefaultContextLogger = &l

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, l); err != nil {
		l.Fatal().Err(err).Msg("client service failed")
	}
}

// openClientRepository returns the client repository of the configured
// driver, its readiness checks and a close function.
func openClientRepository(ctx context.Context, cfg *config.ClientServiceConfig, logger zerolog.Logger) (usecase.ClientRepository, map[string]handler.Check, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn().Msg("using in-memory storage, data is lost on restart")
		return memory.NewClientRepository(memory.NewStore()), nil, func() {}, nil
	}

	if cfg.MigrateOnStart {
		path := filepath.Join(cfg.MigrationsPath, postgres.ClientMigrations)
		if err := postgres.RunMigrations(cfg.DatabaseURL, path, logger); err != nil {
			return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info().Msg("connected to postgres")

	checks := map[string]handler.Check{"postgres": pool.Ping}
	return postgresRepo.NewClientRepository(pool), checks, pool.Close, nil
}

func run(ctx context.Context, cfg *config.ClientServiceConfig, logger zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	repo, checks, closeRepo, err := openClientRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	clientUC := usecase.NewClientUseCase(repo, m, cfg.BcryptCost)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	go server.SweepVisitors(ctx, rateLimiter, time.Minute, 3*time.Minute)

	router := httpAdapter.NewClientRouter(httpAdapter.ClientRouterConfig{
		CommonConfig: httpAdapter.CommonConfig{
			HealthHandler:      handler.NewHealthHandler(checks),
			Logger:             logger,
			Metrics:            m,
			MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			RateLimiter:        rateLimiter,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		ClientHandler: handler.NewClientHandler(clientUC),
	})

	return server.Run(ctx, cfg.HTTPConfig, router, logger)
}
