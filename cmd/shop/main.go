package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/voiceshop/internal/catalog"
	"github.com/nikolayk812/voiceshop/internal/config"
	"github.com/nikolayk812/voiceshop/internal/httpapi"
	"github.com/nikolayk812/voiceshop/internal/log"
	"github.com/nikolayk812/voiceshop/internal/port"
	"github.com/nikolayk812/voiceshop/internal/repository"
	"github.com/nikolayk812/voiceshop/internal/service"
	"github.com/nikolayk812/voiceshop/internal/tool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		log.L().WithError(err).Fatal("shop exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	if err := log.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("log.Init: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ledger, closeLedger, err := openLedger(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLedger()

	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	shop, err := service.NewShop(catalog.Default(), ledger, service.WithSessionStore(sessions))
	if err != nil {
		return fmt.Errorf("service.NewShop: %w", err)
	}

	toolsets := [][]tool.Tool{tool.ShopTools(shop, cfg.ShopName)}
	if cfg.FraudCasesPath != "" {
		cases, err := repository.NewFraudCases(cfg.FraudCasesPath)
		if err != nil {
			return fmt.Errorf("repository.NewFraudCases: %w", err)
		}
		toolsets = append(toolsets, tool.FraudTools(cases))
	}

	registry, err := tool.NewRegistry(toolsets...)
	if err != nil {
		return fmt.Errorf("tool.NewRegistry: %w", err)
	}

	handler, err := httpapi.NewHandler(shop, registry, sessions)
	if err != nil {
		return fmt.Errorf("httpapi.NewHandler: %w", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpapi.NewRouter(handler, cfg.RequestTimeout),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.L().WithFields(logrus.Fields{
			"port":  cfg.HTTPPort,
			"tools": len(registry.Tools()),
		}).Info("shop tool host starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
	case <-ctx.Done():
	}

	log.L().Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	log.L().Info("server exited")
	return nil
}

func openLedger(ctx context.Context, cfg config.Config) (port.OrderLedger, func(), error) {
	if cfg.LedgerDSN == "" {
		ledger, err := repository.NewFileLedger(cfg.LedgerPath)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.NewFileLedger: %w", err)
		}
		log.L().WithField("path", cfg.LedgerPath).Info("using file order ledger")
		return ledger, func() {}, nil
	}

	if err := repository.RunMigrations(cfg.LedgerDSN, cfg.MigrationsPath); err != nil {
		return nil, nil, fmt.Errorf("repository.RunMigrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.LedgerDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pool.Ping: %w", err)
	}

	log.L().Info("using postgres order ledger")
	return repository.NewOrder(pool), pool.Close, nil
}

func openSessions(ctx context.Context, cfg config.Config) (port.SessionStore, func(), error) {
	if cfg.SessionRedisAddr == "" {
		return repository.NewMemorySessionStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.SessionRedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("client.Ping: %w", err)
	}

	log.L().WithFields(logrus.Fields{
		"addr": cfg.SessionRedisAddr,
		"ttl":  cfg.SessionTTL,
	}).Info("using redis session store")

	return repository.NewRedisSessionStore(client, cfg.SessionTTL), func() {
		if err := client.Close(); err != nil {
			log.L().WithError(err).Warn("redis client close")
		}
	}, nil
}
