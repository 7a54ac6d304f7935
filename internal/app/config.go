package app

import (
	"errors"
	"fmt"
)

// Config holds the settings given on the command line. Zero values leave the
// corresponding configuration file value, or its default, in place.
type Config struct {
	ConfigPath   string // HCL configuration file
	SnapshotPath string // project snapshot, overrides the configured source
	OutputDir    string
	Platform     string
	Workers      int
	Archive      bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.ConfigPath != "" && cfg.ConfigPath == cfg.SnapshotPath {
		return nil, errors.New("the configuration file and the snapshot must be different files")
	}
	return &cfg, nil
}
