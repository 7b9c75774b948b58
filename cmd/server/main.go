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

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/checkout"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/config"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/gateway"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/service"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/webhook"
	"github.com/Lixing-Zhang/tapsilat-checkout/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const applicationName = "Tapsilat Go Checkout"

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting tapsilat checkout server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"gateway_url", cfg.Gateway.BaseURL,
		"webhook_dir", cfg.Webhook.Dir,
		"log_level", cfg.LogLevel,
	)

	gw := gateway.NewClient(cfg.Gateway)

	deps := dependencies{
		orders:        service.NewOrderService(gw, checkout.NewNormalizer(applicationName), log),
		subscriptions: service.NewSubscriptionService(gw, log),
		terms:         service.NewTermService(gw, log),
		webhooks:      webhook.NewStore(cfg.Webhook.Dir),
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      newRouter(cfg, deps, log),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
