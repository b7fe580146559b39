package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/baharkarakas/budgetbox/internal/api"
	"github.com/baharkarakas/budgetbox/internal/config"
	"github.com/baharkarakas/budgetbox/internal/db"
	"github.com/baharkarakas/budgetbox/internal/events"
	"github.com/baharkarakas/budgetbox/internal/logger"
	"github.com/baharkarakas/budgetbox/internal/metrics"
	repo "github.com/baharkarakas/budgetbox/internal/repository"
	"github.com/baharkarakas/budgetbox/internal/repository/memory"
	"github.com/baharkarakas/budgetbox/internal/repository/postgres"
	"github.com/baharkarakas/budgetbox/internal/repository/sqlite"
	"github.com/baharkarakas/budgetbox/internal/services"
	"github.com/baharkarakas/budgetbox/internal/worker"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	users, budgets, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	pub := openPublisher(cfg, log)
	defer pub.Close()

	wp := worker.NewPool(cfg.WorkerCount)
	defer wp.Stop()

	userSvc := services.NewUserService(users)
	syncSvc := services.NewSyncService(userSvc, budgets, pub, wp)

	// bootstrap never blocks startup
	if u, created, err := userSvc.Ensure(ctx, cfg.SeedEmail); err != nil {
		log.Warn("seed user", "email", cfg.SeedEmail, "err", err)
	} else if created {
		log.Info("seed user created", "email", u.Email, "id", u.ID)
	}

	metrics.Init()
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(cfg, syncSvc, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "port", cfg.HTTPPort, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (repo.Users, repo.Budgets, func(), error) {
	switch cfg.DataBackend {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("db config: %w", err)
		}
		// an unreachable database keeps the server up; requests answer 500
		if err := db.Ping(ctx, pool); err != nil {
			log.Warn("database unavailable; serving anyway", "err", err)
			if cfg.Migrate {
				log.Warn("migrations skipped")
			}
		} else if cfg.Migrate {
			if err := db.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, nil, fmt.Errorf("migrations: %w", err)
			}
		}
		repos := postgres.NewRepositories(pool)
		return repos.Users, repos.Budgets, pool.Close, nil
	case "sqlite":
		sdb, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("sqlite open: %w", err)
		}
		repos := sqlite.NewRepositories(sdb)
		return repos.Users, repos.Budgets, func() { _ = sdb.Close() }, nil
	default:
		log.Warn("memory backend: data is lost on restart")
		ur, br := memory.New().Repos()
		return ur, br, func() {}, nil
	}
}

// openPublisher falls back to events.Nop when no broker is configured or
// the broker is unreachable.
func openPublisher(cfg config.Config, log *slog.Logger) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.Nop{}
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
	if err != nil {
		log.Warn("amqp unavailable; sync events disabled", "err", err)
		return events.Nop{}
	}
	log.Info("publishing sync events", "exchange", cfg.AMQPExchange, "routing_key", cfg.AMQPRoutingKey)
	return p
}
