// Package config reads the application configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/gcfg.v1"
)

// Storage backends.
const (
	BackendCSV   = "csv"
	BackendRedis = "redis"
)

// Config mirrors the sections of the INI configuration file.
type Config struct {
	Storage struct {
		Backend string
		Dir     string
	}

	Redis struct {
		Server string
		DB     int `gcfg:"db"`
		Pass   string
	}

	Log struct {
		Level   string
		Console bool
	}

	Ledger struct {
		BillingCycleStartDay int    `gcfg:"billing-cycle-start-day"`
		DefaultUser          string `gcfg:"default-user"`
	}
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var cfg Config
	cfg.Storage.Backend = BackendCSV
	cfg.Storage.Dir = "data"
	cfg.Redis.Server = "localhost:6379"
	cfg.Log.Level = "info"
	cfg.Log.Console = true
	cfg.Ledger.BillingCycleStartDay = 19
	return cfg
}

// Read loads filename over the defaults. A missing file is not an error.
// Unknown variables are tolerated, syntax errors are not.
func Read(filename string) (Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if err := gcfg.FatalOnly(gcfg.ReadFileInto(&cfg, filename)); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values the rest of the program relies on.
func (c Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case BackendCSV, BackendRedis:
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	if c.Ledger.BillingCycleStartDay < 1 || c.Ledger.BillingCycleStartDay > 28 {
		return fmt.Errorf("billing-cycle-start-day must be between 1 and 28, got %d", c.Ledger.BillingCycleStartDay)
	}
	return nil
}
