package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/media"
)

const checkoutQRSize = 256

var ephemeral bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "keep state in memory only")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx, func(cfg *config.Config) {
		if ephemeral {
			cfg.Storage.Driver = config.StorageMemory
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger

	// --- AMQP ---
	var publisher events.OrderPublisher = events.NopPublisher{}
	if a.cfg.AMQPURL != "" {
		pub, conn, err := events.Dial(a.cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		defer pub.Close()
		publisher = pub
		logger.Info("publishing order events", zap.String("exchange", events.EventsExchange))
	} else {
		logger.Info("AMQP_URL not set, order events disabled")
	}

	svc := checkout.NewService(a.store, publisher, a.feed, logger, checkout.Config{
		ShopName:    a.cfg.Order.ShopName,
		Phone:       a.cfg.Order.Phone,
		CountryCode: a.cfg.Order.CountryCode,
		QRSize:      checkoutQRSize,
	})

	// --- HTTP ---
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:             logger,
		Store:              a.store,
		Checkout:           svc,
		Feed:               a.feed,
		Images:             media.NewEncoder(a.cfg.Images.MaxWidth, a.cfg.Images.MaxBytes),
		AdminUsername:      a.cfg.Admin.Username,
		LoginRatePerMinute: a.cfg.Admin.LoginRatePerMinute,
		CORSAllowOrigins:   a.cfg.CORSAllowOrigins,
	})

	httpServer := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http listening", zap.String("addr", a.cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal", zap.String("signal", sig.String()))
	case runErr = <-errCh:
		logger.Error("http server failed", zap.Error(runErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	svc.Wait()
	cancel()

	logger.Info("shutdown complete")
	return runErr
}
