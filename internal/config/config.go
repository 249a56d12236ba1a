package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream source credentials. An empty key disables that source; the
	// pipeline degrades to the remaining ones.
	NewsAPIKey    string
	FinanceAPIKey string

	EmergencyFeedURLs []string
	WatchSymbols      []string
	MarketIndices     []string

	FetchTimeout  time.Duration // per upstream HTTP call
	AssessTimeout time.Duration // whole-assessment deadline
	RankLimit     int

	// Optional assessment history. Empty DATABASE_URL disables persistence.
	DatabaseURL string

	// Optional assessment event publishing. No brokers disables Kafka.
	KafkaBrokers         []string
	KafkaAssessmentTopic string
}

// defaultEmergencyFeeds is the curated set of emergency-service and world
// news syndication feeds queried when EMERGENCY_FEED_URLS is unset.
var defaultEmergencyFeeds = []string{
	"https://alerts.weather.gov/cap/us.php?x=1",
	"https://rss.cnn.com/rss/edition.rss",
	"https://feeds.bbci.co.uk/news/rss.xml",
	"https://www.abc.net.au/news/feed/51120/rss.xml",
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	assessTimeout, err := parseDuration("ASSESS_TIMEOUT", "25s")
	if err != nil {
		return nil, err
	}

	rankLimit, err := parseInt("RANK_LIMIT", 8)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NewsAPIKey:    os.Getenv("NEWS_API_KEY"),
		FinanceAPIKey: os.Getenv("FINANCE_API_KEY"),

		EmergencyFeedURLs: parseListOrDefault("EMERGENCY_FEED_URLS", defaultEmergencyFeeds),
		WatchSymbols:      parseListOrDefault("WATCH_SYMBOLS", []string{"AAPL", "GOOGL", "MSFT", "TSLA", "NVDA"}),
		MarketIndices:     parseListOrDefault("MARKET_INDICES", []string{"SPY", "QQQ", "DIA"}),

		FetchTimeout:  fetchTimeout,
		AssessTimeout: assessTimeout,
		RankLimit:     rankLimit,

		DatabaseURL: os.Getenv("DATABASE_URL"),

		KafkaBrokers:         parseListOrDefault("KAFKA_BROKERS", nil),
		KafkaAssessmentTopic: envOrDefault("KAFKA_ASSESSMENT_TOPIC", "risk-assessments"),
	}

	if cfg.AssessTimeout < cfg.FetchTimeout {
		return nil, errors.New("ASSESS_TIMEOUT must be at least FETCH_TIMEOUT")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaAssessmentTopic == "" {
		return nil, errors.New("KAFKA_ASSESSMENT_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

// parseListOrDefault splits a comma-separated env value, trimming blanks.
func parseListOrDefault(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
