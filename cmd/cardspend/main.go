package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	appamqp "github.com/epalmerini/cardspend/internal/amqp"
	"github.com/epalmerini/cardspend/internal/cli"
	apphttp "github.com/epalmerini/cardspend/internal/http"
	"github.com/epalmerini/cardspend/internal/provider"
	"github.com/epalmerini/cardspend/internal/provider/mock"
	"github.com/epalmerini/cardspend/internal/provider/wise"
	"github.com/epalmerini/cardspend/internal/services"
	"github.com/epalmerini/cardspend/internal/store"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	// Amounts serialize as JSON numbers, matching the API contract
	decimal.MarshalJSONWithoutQuotes = true

	cfg := cli.LoadAndValidateConfig(logger)
	settingsStore := cli.InitSettingsStore(logger, cfg)

	var source provider.Source
	switch {
	case cfg.MockMode:
		source = mock.New()
		logger.Info("Initialized mock provider")
	default:
		client, err := wise.New(wise.Config{
			Environment: cfg.ProviderEnvironment,
			BaseURL:     cfg.ProviderBaseURL,
			Token:       cfg.ProviderAPIToken,
			ProfileID:   cfg.ProviderProfileID,
			Timeout:     cfg.ProviderTimeout,
		})
		if err != nil {
			logger.Error("Failed to initialize provider client", "error", err, "environment", cfg.ProviderEnvironment)
			os.Exit(1)
		}
		source = client
		logger.Info("Initialized live provider", "environment", cfg.ProviderEnvironment)
	}

	// Optional refresh notifications
	var publisher services.Publisher
	var amqpClient *appamqp.Client
	if cfg.AMQPURL != "" {
		client, err := appamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, refresh notifications disabled", "error", err)
		} else {
			amqpClient = client
			publisher = client
			logger.Info("Initialized AMQP publisher", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	st := store.New()
	refresher := services.NewRefreshService(source, st, settingsStore, publisher, cfg.FallbackCurrency)

	// Initial refresh. A failure keeps the server up; the API answers 503
	// until a later resync succeeds.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if _, err := refresher.Refresh(startupCtx); err != nil {
		logger.Warn("Initial data fetch failed, serving 503 until resync", "error", err)
	}
	startupCancel()

	srv := apphttp.NewServer(":"+cfg.Port, st, refresher, cfg.Configured(), cfg.ProviderEnvironment)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", "error", err)
			}
		}
		cancel()
	}()

	logger.Info("Starting cardspend server", "port", cfg.Port, "mock_mode", cfg.MockMode, "configured", cfg.Configured())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
