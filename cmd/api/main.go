package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "github.com/punchlinehq/punchline/docs" // Import generated docs
	"github.com/punchlinehq/punchline/internal/analytics"
	"github.com/punchlinehq/punchline/internal/api"
	"github.com/punchlinehq/punchline/internal/ask"
	"github.com/punchlinehq/punchline/internal/jokes"
	"github.com/punchlinehq/punchline/internal/llm"
	"github.com/punchlinehq/punchline/internal/logging"
	"github.com/punchlinehq/punchline/internal/refresh"
	"github.com/punchlinehq/punchline/internal/search"
	"github.com/punchlinehq/punchline/pkg/clock"
	"github.com/punchlinehq/punchline/pkg/config"
	"github.com/punchlinehq/punchline/platform/events"
)

// @title Punchline API
// @version 1.0
// @description Joke retrieval service with semantic search, model-assisted recommendations, and a built-in analytics log.
// @description
// @description ## Features
// @description - **Ask**: Free-form joke requests answered via embedding search plus model selection
// @description - **Counts and existence**: "how many X jokes" and "do you have ..." questions answered directly from the collection
// @description - **Feedback**: 1-5 ratings linked to earlier queries by query id
// @description - **Analytics**: Append-only event log with stats, failed-query, and low-satisfaction views

// @contact.name API Support
// @contact.url https://github.com/punchlinehq/punchline

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	// Missing .env is fine; real deployments configure the environment directly.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("initialize logger: %v", err)
	}

	clk := clock.RealClock{}

	store, err := analytics.NewFileStore(cfg.AnalyticsPath)
	if err != nil {
		logger.Fatal("open analytics store", zap.Error(err))
	}

	var publisher *events.Publisher
	var recorder *analytics.Recorder
	if cfg.KafkaEnabled() {
		publisher = events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		recorder = analytics.NewRecorder(store, publisher, logger, clk)
		logger.Info("analytics mirror enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	} else {
		recorder = analytics.NewRecorder(store, nil, logger, clk)
	}

	collection := jokes.NewCollection(cfg.JokesPath, logger)
	if err := collection.Load(); err != nil {
		logger.Fatal("load joke dataset", zap.Error(err))
	}

	apiClient := llm.NewAPIClient(cfg.OpenRouterAPIKey, cfg.LLMBaseURL, cfg.OpenRouterReferrer, cfg.OpenRouterTitle)
	model := llm.NewOpenAI(apiClient, cfg.LLMModel, cfg.LLMTimeout)
	embedder := search.NewOpenAIEmbedder(apiClient, cfg.EmbeddingModel)

	index := search.NewIndex(embedder, logger)
	if err := index.Load(cfg.IndexSnapshotPath); err != nil {
		logger.Warn("index snapshot unreadable, rebuilding", zap.Error(err))
	}
	buildCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	if err := index.EnsureBuilt(buildCtx, refresh.Documents(collection.All())); err != nil {
		// Search degrades to recorded failures with fallback answers, so the
		// service still starts.
		logger.Warn("search index not built", zap.Error(err))
	} else if index.Len() > 0 {
		if err := index.Save(cfg.IndexSnapshotPath); err != nil {
			logger.Warn("index snapshot not saved", zap.Error(err))
		}
	}
	cancel()

	fetcher := jokes.NewFetcher(cfg.JokeAPIURL, cfg.JokeTarget, nil, logger, clk)
	refresher := refresh.NewRefresher(fetcher, collection, index, cfg.IndexSnapshotPath, logger)
	if err := refresher.Start(cfg.RefreshCron); err != nil {
		logger.Fatal("start scheduled refresh", zap.Error(err))
	}

	askService := ask.NewService(collection, index, model, recorder, clk, logger)

	srv := api.NewServer(cfg, logger, api.Deps{
		Catalog:  collection,
		Ask:      askService,
		Feedback: recorder,
		Stats:    analytics.NewAggregator(store),
	})
	srv.OnShutdown(refresher.Stop)
	if publisher != nil {
		srv.OnShutdown(func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("close analytics publisher", zap.Error(err))
			}
		})
	}

	if err := srv.Serve(); err != nil {
		log.Fatalf("api server stopped: %v", err)
	}
}
