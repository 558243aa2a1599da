package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// App holds runtime configuration derived from environment variables.
type App struct {
	APIPort     string   `env:"API_PORT" envDefault:"8080"`
	Environment string   `env:"ENVIRONMENT" envDefault:"production"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// Storage paths
	AnalyticsPath     string `env:"ANALYTICS_PATH" envDefault:"data/analytics.jsonl"`
	JokesPath         string `env:"JOKES_PATH" envDefault:"data/jokes.json"`
	IndexSnapshotPath string `env:"INDEX_SNAPSHOT_PATH" envDefault:"data/embeddings.json"`

	// LLM settings (OpenRouter-compatible OpenAI API)
	OpenRouterAPIKey   string        `env:"OPENROUTER_API_KEY"`
	LLMBaseURL         string        `env:"LLM_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	LLMModel           string        `env:"LLM_MODEL" envDefault:"openai/gpt-4o-mini"`
	EmbeddingModel     string        `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	LLMTimeout         time.Duration `env:"LLM_TIMEOUT" envDefault:"10s"`
	OpenRouterReferrer string        `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string        `env:"OPENROUTER_TITLE"`

	// Analytics event mirror (disabled when no brokers are configured)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"punchline.analytics"`

	// Joke dataset refresh
	JokeAPIURL  string `env:"JOKEAPI_URL" envDefault:"https://v2.jokeapi.dev/joke/Any"`
	JokeTarget  int    `env:"JOKE_TARGET" envDefault:"100"`
	RefreshCron string `env:"REFRESH_CRON"`
}

// FromEnv loads the application configuration from environment variables.
func FromEnv() (App, error) {
	cfg := App{}
	if err := env.Parse(&cfg); err != nil {
		return App{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.CORSOrigins = normalizeList(cfg.CORSOrigins)
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	cfg.KafkaBrokers = normalizeList(cfg.KafkaBrokers)
	return cfg, nil
}

// KafkaEnabled reports whether the analytics event mirror should run.
func (a App) KafkaEnabled() bool {
	return len(a.KafkaBrokers) > 0
}

// normalizeList trims whitespace around comma-separated entries and drops
// empties, so " a , b ,," parses the same as "a,b".
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
