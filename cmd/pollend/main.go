package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/pollen-forecast-service/internal/adapter/googlepollen"
	"github.com/couchcryptid/pollen-forecast-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/pollen-forecast-service/internal/adapter/kafka"
	"github.com/couchcryptid/pollen-forecast-service/internal/config"
	"github.com/couchcryptid/pollen-forecast-service/internal/coordinator"
	"github.com/couchcryptid/pollen-forecast-service/internal/domain"
	"github.com/couchcryptid/pollen-forecast-service/internal/observability"
)

// defaultEntryID identifies the single location entry this process serves.
// Multi-entry hosting would mint one per configured location.
const defaultEntryID = "default"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One shared HTTP client for every fetch; the client adapter borrows it
	// and never closes it.
	httpClient := &http.Client{}

	client := googlepollen.NewClient(cfg.APIKey, httpClient, cfg.APITimeout, metrics, logger)

	if cfg.ValidateKeyOnStart {
		ok, err := client.ValidateKey(ctx)
		switch {
		case err != nil:
			logger.Error("cannot reach pollen service to validate key", "error", err)
			os.Exit(1)
		case !ok:
			logger.Error("invalid pollen api key")
			os.Exit(1)
		}
		logger.Info("pollen api key validated")
	}

	var fetcher domain.ForecastFetcher = googlepollen.NewRateLimitedFetcher(client, cfg.RateLimitRPS, cfg.RateLimitBurst)

	coord := coordinator.New(
		fetcher,
		cfg.Latitude, cfg.Longitude,
		cfg.ForecastDays, cfg.UpdateInterval,
		clockwork.NewRealClock(), logger, metrics,
	)

	registry := coordinator.NewRegistry()
	if err := registry.Register(defaultEntryID, coord); err != nil {
		logger.Error("failed to register coordinator", "error", err)
		os.Exit(1)
	}
	defer registry.Remove(defaultEntryID)

	var notifier *kafkaadapter.Notifier
	if cfg.KafkaEnabled {
		notifier = kafkaadapter.NewNotifier(cfg, defaultEntryID, metrics, logger)
		coord.Subscribe(notifier.Listener())
		logger.Info("kafka update notifications enabled", "topic", cfg.KafkaUpdatesTopic)
	} else {
		logger.Info("kafka update notifications disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, coord, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := coord.Run(ctx); err != nil {
			logger.Error("coordinator error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if notifier != nil {
		if err := notifier.Close(); err != nil {
			logger.Error("kafka notifier close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
