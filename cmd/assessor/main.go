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

	"github.com/couchcryptid/risk-signal-service/internal/adapter/finnhub"
	"github.com/couchcryptid/risk-signal-service/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/risk-signal-service/internal/adapter/kafka"
	"github.com/couchcryptid/risk-signal-service/internal/adapter/newsapi"
	"github.com/couchcryptid/risk-signal-service/internal/adapter/rss"
	"github.com/couchcryptid/risk-signal-service/internal/config"
	"github.com/couchcryptid/risk-signal-service/internal/domain"
	"github.com/couchcryptid/risk-signal-service/internal/observability"
	"github.com/couchcryptid/risk-signal-service/internal/pipeline"
	"github.com/couchcryptid/risk-signal-service/internal/storage"
)

func main() {
	// Best-effort .env loading for local development; production relies on
	// real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Source adapters in merge order: hazard news, emergency feeds,
	// financial news. Missing credentials degrade per source, never fail
	// startup.
	sources := []pipeline.Source{
		newsapi.NewClient(cfg.NewsAPIKey, cfg.FetchTimeout, logger),
		rss.NewClient(cfg.EmergencyFeedURLs, cfg.FetchTimeout, logger),
		finnhub.NewClient(cfg.FinanceAPIKey, cfg.WatchSymbols, cfg.MarketIndices, cfg.FetchTimeout, logger),
	}

	assessor := pipeline.New(sources, domain.DefaultVocabulary(), logger, metrics, cfg.AssessTimeout, cfg.RankLimit)

	var store httpapi.Store
	if cfg.DatabaseURL != "" {
		pool, err := storage.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := storage.RunMigrations(ctx, pool); err != nil {
			logger.Error("database migration failed", "error", err)
			os.Exit(1)
		}
		store = storage.NewRepository(pool)
		logger.Info("assessment history enabled")
	} else {
		logger.Info("assessment history disabled")
	}

	var publisher httpapi.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		p := kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAssessmentTopic, logger)
		defer func() {
			if err := p.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		publisher = p
		logger.Info("assessment events enabled", "topic", cfg.KafkaAssessmentTopic)
	} else {
		logger.Info("assessment events disabled")
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, assessor, store, publisher, logger, metrics)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
