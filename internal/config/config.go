// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir         string // Base directory for the database and manual CSV drops
	DocsDir         string // Output directory for the generated report site
	DBPath          string // SQLite database file path
	LogLevel        string
	Port            int    // Port for the `serve` subcommand
	AnthropicAPIKey string // Optional; enricher falls back to heuristics when empty
	Feeds           []string
	FetchDelay      float64 // Seconds to sleep between sequential external requests
}

// Load reads configuration from environment variables.
// A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("TIDEMARK_DATA_DIR", "data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	docsDir := getEnv("TIDEMARK_DOCS_DIR", "docs")
	absDocsDir, err := filepath.Abs(docsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve docs directory path: %w", err)
	}

	cfg := &Config{
		DataDir:         absDataDir,
		DocsDir:         absDocsDir,
		DBPath:          filepath.Join(absDataDir, "tidemark.sqlite"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnvAsInt("TIDEMARK_PORT", 8080),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		Feeds:           loadFeeds(),
		FetchDelay:      getEnvAsFloat("TIDEMARK_FETCH_DELAY", 1.0),
	}

	return cfg, nil
}

// ScraperDisabled reports whether an index scraper has been turned off
// via TIDEMARK_SKIP_<NAME> (e.g. TIDEMARK_SKIP_HARPEX=1).
func ScraperDisabled(name string) bool {
	_, set := os.LookupEnv("TIDEMARK_SKIP_" + strings.ToUpper(name))
	return set
}

// loadFeeds returns the configured RSS feeds plus any extras from
// TIDEMARK_EXTRA_FEEDS (comma-separated).
func loadFeeds() []string {
	feeds := make([]string, len(DefaultFeeds))
	copy(feeds, DefaultFeeds)

	extra := getEnv("TIDEMARK_EXTRA_FEEDS", "")
	for _, url := range strings.Split(extra, ",") {
		url = strings.TrimSpace(url)
		if url != "" {
			feeds = append(feeds, url)
		}
	}
	return feeds
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
