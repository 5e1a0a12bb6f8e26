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

	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/mcp-dealcalc-go/internal/config"
	"github.com/cloud-ru/mcp-dealcalc-go/internal/deal"
	"github.com/cloud-ru/mcp-dealcalc-go/internal/server"
	"github.com/cloud-ru/mcp-dealcalc-go/internal/tools"
	"github.com/cloud-ru/mcp-dealcalc-go/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, shutdownTracing, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint, logger)
	if err != nil {
		logger.Fatalf("Failed to init tracing: %v", err)
	}

	initial := deal.DefaultDeal(time.Now())
	if cfg.DealSeedFile != "" {
		initial, err = deal.LoadSeed(cfg.DealSeedFile)
		if err != nil {
			logger.Fatalf("Failed to load deal seed: %v", err)
		}
		logger.WithField("file", cfg.DealSeedFile).Info("deal loaded from seed")
	}

	store := deal.NewStore(initial, logger)
	registry := tools.NewRegistry(cfg, tracer, logger)
	srv := server.New(cfg, store, registry, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("tools", registry.Names()).Infof("Starting server on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.WithError(err).Error("tracing shutdown failed")
	}
}
