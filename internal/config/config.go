// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken string
	DBPath      string
	EventFeed   string
	Workers     int
	QueueDepth  int
}

// HasGitHubToken returns true when a token is configured. Used by the
// composition root to decide between a real reviewer writer and the dry-run
// writer.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// AUTOREVIEWER_GITHUB_TOKEN is optional; without it the app runs in dry-run
// mode and logs the reviewer requests it would have made.
// Optional variables with defaults: AUTOREVIEWER_DB_PATH (autoreviewer.db),
// AUTOREVIEWER_EVENT_FEED ("-", meaning stdin), AUTOREVIEWER_WORKERS (2),
// AUTOREVIEWER_QUEUE_DEPTH (64).
func Load() (*Config, error) {
	token := os.Getenv("AUTOREVIEWER_GITHUB_TOKEN")

	dbPath := "autoreviewer.db"
	if v, ok := os.LookupEnv("AUTOREVIEWER_DB_PATH"); ok {
		dbPath = v
	}

	eventFeed := "-"
	if v, ok := os.LookupEnv("AUTOREVIEWER_EVENT_FEED"); ok && v != "" {
		eventFeed = v
	}

	workers, err := positiveIntEnv("AUTOREVIEWER_WORKERS", 2)
	if err != nil {
		return nil, err
	}

	queueDepth, err := positiveIntEnv("AUTOREVIEWER_QUEUE_DEPTH", 64)
	if err != nil {
		return nil, err
	}

	return &Config{
		GitHubToken: token,
		DBPath:      dbPath,
		EventFeed:   eventFeed,
		Workers:     workers,
		QueueDepth:  queueDepth,
	}, nil
}

func positiveIntEnv(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid integer %q: %w", key, v, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
