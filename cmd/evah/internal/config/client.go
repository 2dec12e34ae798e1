// Package config provides configuration management for the evah CLI.
//
// This file handles loading configuration from environment variables and .env
// files, and creating configured evah SDK clients.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	evah "evah-sdk"
	"evah-sdk/history"
	"evah-sdk/models"
)

// Environment variables read by Load
const (
	EnvBaseURL       = "EVAH_BASE_URL"
	EnvVariant       = "EVAH_VARIANT"
	EnvTimeout       = "EVAH_TIMEOUT"
	EnvOutputDir     = "EVAH_OUTPUT_DIR"
	EnvHistoryDBType = "EVAH_HISTORY_DB_TYPE"
	EnvHistoryDSN    = "EVAH_HISTORY_DSN"
)

// Config is the resolved CLI configuration
type Config struct {
	BaseURL       string
	Variant       models.Variant
	Timeout       time.Duration
	OutputDir     string
	HistoryDBType string
	HistoryDSN    string
}

// Load reads .env (when present) and the environment
func Load() (Config, error) {
	// Load .env file
	godotenv.Load()

	cfg := Config{
		BaseURL:       os.Getenv(EnvBaseURL),
		Timeout:       evah.DefaultTimeout,
		OutputDir:     os.Getenv(EnvOutputDir),
		HistoryDBType: os.Getenv(EnvHistoryDBType),
		HistoryDSN:    os.Getenv(EnvHistoryDSN),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = evah.DefaultBaseURL
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	variant, err := models.ParseVariant(os.Getenv(EnvVariant))
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", EnvVariant, err)
	}
	cfg.Variant = variant

	if raw := os.Getenv(EnvTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		if timeout <= 0 {
			return cfg, fmt.Errorf("%s must be positive, got %s", EnvTimeout, raw)
		}
		cfg.Timeout = timeout
	}

	return cfg, nil
}

// ClientOptions returns the SDK options for cfg
func (c Config) ClientOptions() []evah.ClientOption {
	return []evah.ClientOption{
		evah.WithBaseURL(c.BaseURL),
		evah.WithTimeout(c.Timeout),
		evah.WithVariant(c.Variant),
		evah.WithHeader("User-Agent", "evah-cli"),
	}
}

// NewClient creates an evah client for cfg
func (c Config) NewClient() *evah.Client {
	return evah.NewClient(c.ClientOptions()...)
}

// HistoryEnabled reports whether a run history database is configured
func (c Config) HistoryEnabled() bool {
	return c.HistoryDBType != "" && c.HistoryDSN != ""
}

// OpenHistory connects to the run history database. It returns nil without
// error when no database is configured.
func (c Config) OpenHistory(ctx context.Context) (*history.Store, error) {
	if !c.HistoryEnabled() {
		return nil, nil
	}
	return history.Open(ctx, c.HistoryDBType, c.HistoryDSN)
}
