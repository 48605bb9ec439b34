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

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kjannette/trade-dashboard/internal/analytics"
	"github.com/kjannette/trade-dashboard/internal/api"
	"github.com/kjannette/trade-dashboard/internal/config"
	"github.com/kjannette/trade-dashboard/internal/db"
	"github.com/kjannette/trade-dashboard/internal/ingest"
	"github.com/kjannette/trade-dashboard/internal/logger"
	"github.com/kjannette/trade-dashboard/internal/metrics"
	"github.com/kjannette/trade-dashboard/internal/notifications"
	"github.com/kjannette/trade-dashboard/internal/repository"
)

const banner = `
╔══════════════════════════════════════╗
║     Trade Analytics Dashboard        ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.ServiceName, cfg.LogLevel, cfg.LogFile)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	cfg.Print()

	if err := run(cfg); err != nil {
		logger.Error(context.Background(), "dashboard stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	engine := analytics.NewEngine(analytics.WithLocation(loc))

	limits := ingest.Limits{MaxRows: cfg.MaxRows, MaxBytes: cfg.MaxFileBytes}
	opts := api.Options{
		Port:            cfg.Port,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		StaticDir:       cfg.StaticDir,
		SourceKind:      cfg.TradesSource,
		StrictFormat:    cfg.StrictFormat,
		Alerter:         notifications.NewSender(cfg.WebhookURL, cfg.ServiceName),
	}

	var loader api.TradeLoader
	switch cfg.TradesSource {
	case config.SourceHTTP:
		loader = ingest.NewHTTPLoader(cfg.TradesURL, limits)
	case config.SourcePostgres:
		logger.Info(ctx, "connecting to database",
			zap.String("host", cfg.DBHost), zap.Int("port", cfg.DBPort), zap.String("db", cfg.DBName))
		pool, err := db.Connect(ctx, cfg.DSN())
		if err != nil {
			return fmt.Errorf("database connection: %w", err)
		}
		defer func() {
			pool.Close()
			logger.Info(context.Background(), "database pool closed")
		}()
		if err := db.TestConnection(ctx, pool); err != nil {
			return err
		}
		loader = repository.NewTradeRepo(pool, cfg.MaxRows)
		opts.Pinger = pool
	default:
		loader = ingest.NewFileLoader(cfg.TradesFile, limits)
	}

	srv := api.NewServer(loader, engine, opts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api shutdown: %w", err)
		}
		logger.Info(context.Background(), "api server closed")
		return nil
	})

	return g.Wait()
}
