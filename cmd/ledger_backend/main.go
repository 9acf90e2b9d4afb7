package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/ledger_core/internal/adapters/messaging"
	portsmsg "github.com/SscSPs/ledger_core/internal/core/ports/messaging"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/handlers"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/SscSPs/ledger_core/internal/platform/config"
	"github.com/SscSPs/ledger_core/internal/platform/lock"
	"github.com/SscSPs/ledger_core/internal/platform/scheduler"
	"github.com/SscSPs/ledger_core/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_core/internal/repositories/memory"
	"github.com/SscSPs/ledger_core/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	shutdownTimeout = 10 * time.Second
	relayJobTimeout = 30 * time.Second
)

// @title Ledger Core API
// @version 1.0
// @description Double-entry ledger: chart of accounts, fiscal periods and journal entries.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	var (
		repos portsrepo.RepositoryProvider
		store handlers.Pinger
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		repos = memory.NewStore().Provider()
		logger.Info("Using in-memory store")
	default:
		if err := database.RunMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return err
		}
		pool, err := database.NewPgxPool(ctx, logger, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return err
		}
		defer database.ClosePgxPool(logger, pool)
		repos = pgsql.NewRepositoryProvider(pool, cfg.DBLockTimeout)
		store = pool
	}

	// --- Account locking ---
	var locker lock.Locker
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		client := redis.NewClient(opts)
		defer func() {
			if cerr := client.Close(); cerr != nil {
				logger.Error("Error closing redis client", slog.String("error", cerr.Error()))
			}
		}()
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		locker = lock.NewRedisLocker(client, cfg.LockTimeout, cfg.LockTTL, lock.WithRedisLogger(logger))
		logger.Info("Using redis account locks")
	} else {
		locker = lock.NewLocalLocker(cfg.LockTimeout)
	}

	// --- Event publishing ---
	var publisher portsmsg.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka := messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer func() {
			if cerr := kafka.Close(); cerr != nil {
				logger.Error("Error closing kafka writer", slog.String("error", cerr.Error()))
			}
		}()
		publisher = kafka
	} else {
		publisher = messaging.NewLogPublisher(logger)
	}

	container := services.NewServiceContainer(cfg, repos, locker, publisher, services.WithLogger(logger))

	// --- Outbox relay ---
	sched := scheduler.New(logger, relayJobTimeout)
	err = sched.AddJob(cfg.OutboxSchedule, scheduler.JobFunc{
		JobName: "outbox-relay",
		Fn: func(ctx context.Context) error {
			_, err := container.Outbox.DispatchPending(ctx)
			return err
		},
	})
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// --- HTTP ---
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
		ExposeHeaders:   []string{"Retry-After"},
		MaxAge:          12 * time.Hour,
	}))
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}
	handlers.RegisterRoutes(r, cfg, container, store, rateLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
