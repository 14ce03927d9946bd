package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/receipt-processor/internal/application/service"
	"github.com/damon-houk/receipt-processor/internal/config"
	"github.com/damon-houk/receipt-processor/internal/domain/repository"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/db"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/handler"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/logger"
	"github.com/damon-houk/receipt-processor/internal/infrastructure/metrics"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, fs, err := config.Load(args)
	if errors.Is(err, ff.ErrHelp) {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		return nil
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		return err
	}

	log, err := logger.New(cfg.LogFormat, stdout, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetDefaultLogger(log)

	repo, closeRepo, err := openRepository(cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Error("Error closing receipt store", map[string]interface{}{"error": err.Error()})
		}
	}()

	var m *metrics.Metrics
	if !cfg.DisableMetrics {
		m = metrics.New()
	}

	// Initialize services
	receiptService := service.NewReceiptService(repo, m, log)

	// Setup router
	router := handler.NewRouter(handler.RouterDependencies{
		Receipts: handler.NewReceiptHandler(receiptService, log),
		Health:   handler.NewHealthHandler(log),
		Metrics:  m,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"addr":    srv.Addr,
			"store":   cfg.Store,
			"metrics": m != nil,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Received shutdown signal", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped", nil)
	return nil
}

func openRepository(store string) (repository.ReceiptRepository, func() error, error) {
	switch store {
	case config.StoreBadger:
		badgerDB, err := db.OpenInMemoryBadger()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		return db.NewBadgerReceiptRepository(badgerDB), badgerDB.Close, nil
	default:
		return db.NewMemoryReceiptRepository(), func() error { return nil }, nil
	}
}
