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

	"github.com/fjod/go_pos/internal/backend"
	"github.com/fjod/go_pos/internal/cart"
	"github.com/fjod/go_pos/internal/checkout"
	"github.com/fjod/go_pos/internal/config"
	"github.com/fjod/go_pos/internal/domain"
	"github.com/fjod/go_pos/internal/events"
	h "github.com/fjod/go_pos/internal/http"
	"github.com/fjod/go_pos/internal/logger"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pos-terminal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	zap.ReplaceGlobals(log)
	log = log.With(zap.String("terminal_id", cfg.TerminalID))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer kv.Close()

	store := cart.New(ctx, kv,
		cart.WithLogger(log.Named("cart")),
		cart.WithPersistTimeout(cfg.PersistTimeout))
	unsubscribe := store.Subscribe(func(items []domain.LineItem) {
		log.Debug("cart changed", zap.Int("items", len(items)))
	})
	defer unsubscribe()

	client := backend.NewClient(cfg.APIURL, cfg.BackendTimeout, log.Named("backend"))
	order := checkout.New(store, client,
		checkout.WithLogger(log.Named("checkout")),
		checkout.WithDefaultWaiter(cfg.DefaultWaiterID),
		checkout.WithNotifier(checkout.NotifierFunc(func(msg string) {
			log.Warn("cashier notification", zap.String("message", msg))
		})))

	var orderEvents h.OrderEvents
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewPublisher(cfg.OrdersTopic, log.Named("events"), cfg.KafkaBrokers...)
		defer publisher.Close()
		orderEvents = publisher

		listener := events.NewResetListener(cfg.TerminalID, cfg.ResetTopic, order, log.Named("events"), cfg.KafkaBrokers...)
		defer listener.Close()
		go listener.Run(ctx)
		log.Info("kafka enabled", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	router := h.NewRouter(
		h.RouterConfig{
			JWTSecret:      cfg.JWTSecret,
			RequestTimeout: cfg.RequestTimeout,
			Logger:         log.Named("http"),
		},
		h.NewCartHandler(store, order),
		h.NewOrderHandler(order, client, orderEvents, cfg.TerminalID, cfg.BackendTimeout, log.Named("http")),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("pos terminal starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if err := store.Flush(shutdownCtx); err != nil {
		log.Error("failed to flush cart", zap.Error(err))
	}

	log.Info("server exited")
	return nil
}
