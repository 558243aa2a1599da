// Command punchctl is the operations CLI for the Punchline service. It
// fetches the joke dataset, builds the search index, inspects analytics,
// and clears the event log.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/punchlinehq/punchline/internal/analytics"
	"github.com/punchlinehq/punchline/internal/jokes"
	"github.com/punchlinehq/punchline/internal/llm"
	"github.com/punchlinehq/punchline/internal/logging"
	"github.com/punchlinehq/punchline/internal/refresh"
	"github.com/punchlinehq/punchline/internal/search"
	"github.com/punchlinehq/punchline/pkg/clock"
	"github.com/punchlinehq/punchline/pkg/config"
)

var version = "1.0.0"

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:     "punchctl",
		Short:   "Punchline operations CLI",
		Long:    "Fetch the joke dataset, build the search index, and inspect or clear the analytics log.",
		Version: version,
	}

	root.AddCommand(
		newFetchCmd(),
		newIndexCmd(),
		newStatsCmd(),
		newClearCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func loadConfig() (config.App, logging.Logger, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.App{}, nil, err
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return config.App{}, nil, err
	}
	return cfg, logger, nil
}

func newFetchCmd() *cobra.Command {
	var target int
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch jokes from JokeAPI into the local dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if target > 0 {
				cfg.JokeTarget = target
			}

			collection := jokes.NewCollection(cfg.JokesPath, logger)
			if err := collection.Load(); err != nil {
				return fmt.Errorf("loading dataset: %w", err)
			}
			existing := collection.Count()

			fetcher := jokes.NewFetcher(cfg.JokeAPIURL, cfg.JokeTarget, nil, logger, clock.RealClock{})
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			fetched, err := fetcher.Fetch(ctx, collection.All())
			if err != nil {
				return fmt.Errorf("fetching jokes: %w", err)
			}
			if err := collection.Replace(fetched); err != nil {
				return fmt.Errorf("saving dataset: %w", err)
			}

			fmt.Printf("Dataset now holds %d jokes (%d before) at %s\n", len(fetched), existing, cfg.JokesPath)
			fmt.Println("Run 'punchctl index' to rebuild the search index.")
			return nil
		},
	}
	cmd.Flags().IntVar(&target, "target", 0, "dataset size to aim for (default: JOKE_TARGET)")
	return cmd
}

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the search index over the local dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.OpenRouterAPIKey == "" {
				return fmt.Errorf("OPENROUTER_API_KEY is required to embed jokes")
			}

			collection := jokes.NewCollection(cfg.JokesPath, logger)
			if err := collection.Load(); err != nil {
				return fmt.Errorf("loading dataset: %w", err)
			}
			if collection.Count() == 0 {
				return fmt.Errorf("dataset is empty; run 'punchctl fetch' first")
			}

			apiClient := llm.NewAPIClient(cfg.OpenRouterAPIKey, cfg.LLMBaseURL, cfg.OpenRouterReferrer, cfg.OpenRouterTitle)
			index := search.NewIndex(search.NewOpenAIEmbedder(apiClient, cfg.EmbeddingModel), logger)
			if err := index.Load(cfg.IndexSnapshotPath); err != nil {
				logger.Warn("existing snapshot unreadable, rebuilding")
			}

			docs := refresh.Documents(collection.All())
			if index.Covers(docs) {
				fmt.Printf("Index already covers %d jokes\n", index.Len())
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			if err := index.Build(ctx, docs); err != nil {
				return fmt.Errorf("building index: %w", err)
			}
			if err := index.Save(cfg.IndexSnapshotPath); err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}

			fmt.Printf("Indexed %d jokes, snapshot at %s\n", index.Len(), cfg.IndexSnapshotPath)
			return nil
		},
	}
	return cmd
}

func newStatsCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print usage statistics from the analytics log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := analytics.NewFileStore(cfg.AnalyticsPath)
			if err != nil {
				return err
			}
			stats, err := analytics.NewAggregator(store).Stats()
			if err != nil {
				return fmt.Errorf("reading analytics: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			fmt.Printf("Queries:        %d total, %d ok, %d failed, %d empty, %d blocked\n",
				stats.TotalQueries, stats.SuccessfulQueries, stats.FailedQueries,
				stats.NoResultsQueries, stats.NSFWBlocked)
			fmt.Printf("Failures:       %d model, %d search\n", stats.LLMFailures, stats.SearchFailures)
			fmt.Printf("Feedback:       %d entries, avg rating %.2f\n", stats.FeedbackCount, stats.AvgRating)
			fmt.Printf("Success rate:   %.1f%%\n", stats.SuccessRate)
			fmt.Printf("Avg response:   %.0f ms\n", stats.AvgResponseTimeMs)
			fmt.Printf("Avg jokes:      %.2f per answering query\n", stats.AvgJokesPerQuery)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func newClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Truncate the analytics log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the analytics log without --yes")
			}

			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := analytics.NewFileStore(cfg.AnalyticsPath)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}

			fmt.Printf("Analytics log cleared at %s\n", store.Path())
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing the log")
	return cmd
}
