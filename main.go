package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/dzmatch-votes/archive"
	"github.com/danielhkuo/dzmatch-votes/ballot"
	"github.com/danielhkuo/dzmatch-votes/cliparse"
	"github.com/danielhkuo/dzmatch-votes/metrics"
	"github.com/danielhkuo/dzmatch-votes/middleware"
	"github.com/danielhkuo/dzmatch-votes/router"
	"github.com/danielhkuo/dzmatch-votes/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := cliparse.LoadDotEnv(""); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}

func run(ctx context.Context, cfg cliparse.Config) error {
	catalog, err := ballot.OpenCatalog(cfg.CatalogFile)
	if err != nil {
		return err
	}

	votes, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer votes.Close()

	uploader, err := archive.Open(ctx, cfg)
	if err != nil {
		return err
	}

	m := metrics.New()
	ledger := ballot.NewLedger(votes, catalog, ballot.Options{
		Logger:     slog.Default(),
		Metrics:    m,
		Retries:    cfg.StorageRetries,
		RetryDelay: cfg.StorageRetryDelay,
	})

	if cfg.AdminKeySalt == "" {
		slog.Warn("ADMIN_KEY_SALT not set, admin endpoints disabled")
	}

	server := http.Server{
		Handler:           middleware.CORS(router.NewRouter(ledger, cfg, m, uploader)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port, "storage", cfg.StorageDriver, "archive", cfg.ArchiveDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Wait for a signal or a listener failure
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
