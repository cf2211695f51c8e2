package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/covermap/covermap/internal/config"
	"github.com/covermap/covermap/internal/coverage"
	"github.com/covermap/covermap/internal/geocoding"
	"github.com/covermap/covermap/internal/server"
	"github.com/covermap/covermap/internal/telemetry"
)

const serviceName = "covermap"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := telemetry.InitGlobalLogger(&telemetry.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := telemetry.GetGlobalLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelProvider, err := telemetry.NewProvider(ctx, &telemetry.OTelConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("OpenTelemetry shutdown: %v", err)
		}
	}()

	operators := coverage.DefaultOperators()
	if cfg.OperatorsFile != "" {
		operators, err = coverage.LoadOperatorTable(cfg.OperatorsFile)
		if err != nil {
			logger.Fatalf("Failed to load operator table: %v", err)
		}
	}

	builder := coverage.NewBuilder(operators, coverage.DatasetConfig{
		Path:           cfg.DatasetPath,
		Delimiter:      cfg.Delimiter(),
		OperatorColumn: cfg.OperatorColumn,
		XColumn:        cfg.XColumn,
		YColumn:        cfg.YColumn,
		Column2G:       cfg.Column2G,
		Column3G:       cfg.Column3G,
		Column4G:       cfg.Column4G,
	})
	provider := coverage.NewProvider(builder, cfg.CachePath)

	// Warm the catalog before accepting traffic; a broken dataset or cache
	// artifact should fail startup, not the first query.
	if _, err := provider.Catalog(ctx); err != nil {
		logger.Fatalf("Failed to prepare coverage catalog: %v", err)
	}

	resolver := coverage.NewResolver(operators, coverage.Thresholds{
		MaxDistanceKm:          cfg.MaxDistanceKm,
		SatisfactoryDistanceKm: cfg.SatisfactoryDistanceKm,
	})

	geocoder := geocoding.NewClient(geocoding.Config{
		BaseURL:        cfg.GeocoderBaseURL,
		UserAgent:      cfg.UserAgent,
		Timeout:        cfg.GeocoderTimeout,
		RequestsPerSec: cfg.GeocoderRequestsPerSec,
	})

	metrics, err := server.NewMetrics()
	if err != nil {
		logger.Fatalf("Failed to register metrics: %v", err)
	}

	router := server.NewRouter(
		server.NewHandler(geocoder, provider, resolver, metrics),
		serviceName,
	)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		logger.WithField("addr", cfg.ListenAddr).Info("Coverage API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown: %v", err)
	}
}
