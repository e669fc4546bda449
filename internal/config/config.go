// Package config assembles runtime settings from the environment and an
// optional yaml preferences file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultBaseURL       = "http://localhost:8000"
	DefaultChartDays     = 30
	DefaultChartInterval = "daily"
	DefaultHistoryDays   = 30
)

// FileConfig is the yaml preferences file shape.
type FileConfig struct {
	Chart struct {
		Days     int    `yaml:"days"`
		Interval string `yaml:"interval"`
	} `yaml:"chart"`
	History struct {
		Days int `yaml:"days"`
	} `yaml:"history"`
	Monitor struct {
		IntervalSeconds int `yaml:"interval_seconds"`
	} `yaml:"monitor"`
	Request struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"request"`
}

// Config is the assembled runtime configuration.
type Config struct {
	BaseURL         string
	TokenFile       string
	ChartDays       int
	ChartInterval   string
	HistoryDays     int
	MonitorInterval time.Duration
	RequestTimeout  time.Duration
}

// Load reads .env (when present), then the environment, then the optional
// yaml preferences file. Environment: API_BASE_URL, COINWATCH_TOKEN_FILE,
// COINWATCH_CONFIG.
func Load() (*Config, error) {
	// Missing .env is fine; explicit godotenv errors are not worth failing
	// startup over either, the environment still wins.
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:         DefaultBaseURL,
		ChartDays:       DefaultChartDays,
		ChartInterval:   DefaultChartInterval,
		HistoryDays:     DefaultHistoryDays,
		MonitorInterval: 10 * time.Second,
		RequestTimeout:  30 * time.Second,
	}

	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("COINWATCH_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		cfg.TokenFile = filepath.Join(dir, "coinwatch", "token")
	}

	path := os.Getenv("COINWATCH_CONFIG")
	if path == "" {
		dir, err := os.UserConfigDir()
		if err == nil {
			path = filepath.Join(dir, "coinwatch", "coinwatch.yaml")
		}
	}
	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// applyFile overlays the yaml preferences file onto cfg. A missing file is
// not an error; a malformed one is.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Chart.Days > 0 {
		cfg.ChartDays = fc.Chart.Days
	}
	if fc.Chart.Interval != "" {
		cfg.ChartInterval = fc.Chart.Interval
	}
	if fc.History.Days > 0 {
		cfg.HistoryDays = fc.History.Days
	}
	if fc.Monitor.IntervalSeconds > 0 {
		cfg.MonitorInterval = time.Duration(fc.Monitor.IntervalSeconds) * time.Second
	}
	if fc.Request.TimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(fc.Request.TimeoutSeconds) * time.Second
	}
	return nil
}
