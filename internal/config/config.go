// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All loading functions accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath points at the YAML catalog of skills, supports,
	// ascendancies, compatibility rules, and repair mappings.
	CatalogPath string `koanf:"catalog_path"`

	// CuratedBuildsPath points at the YAML curated build database.
	// Empty disables the curated source.
	CuratedBuildsPath string `koanf:"curated_builds_path"`

	// WorkerCount sets the number of evaluation workers behind the
	// heuristic source.
	WorkerCount int `koanf:"worker_count"`

	// QueueCapacity bounds the heuristic source's per-request evaluation
	// queue; draw counts above it are clamped.
	QueueCapacity int `koanf:"queue_capacity"`

	// SourceTimeoutMS bounds each source's runtime per request, in
	// milliseconds.
	SourceTimeoutMS int `koanf:"source_timeout_ms"`

	// DefaultInnovationLevel is applied when a request leaves the level
	// unset: conservative, balanced, or experimental.
	DefaultInnovationLevel string `koanf:"default_innovation_level"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		CatalogPath:            "catalog.yaml",
		CuratedBuildsPath:      "",
		WorkerCount:            runtime.NumCPU() * 2,
		QueueCapacity:          10_000,
		SourceTimeoutMS:        2_000,
		DefaultInnovationLevel: "balanced",
	}
}

// Validate checks field consistency after loading.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.CatalogPath == "" {
		return fmt.Errorf("%w: catalog_path must not be empty", ErrInvalidConfig)
	}
	if c.WorkerCount < 0 {
		return fmt.Errorf("%w: worker_count must not be negative, got %d", ErrInvalidConfig, c.WorkerCount)
	}
	if c.QueueCapacity < 1 {
		return fmt.Errorf("%w: queue_capacity must be positive, got %d", ErrInvalidConfig, c.QueueCapacity)
	}
	if c.SourceTimeoutMS < 1 {
		return fmt.Errorf("%w: source_timeout_ms must be positive, got %d", ErrInvalidConfig, c.SourceTimeoutMS)
	}
	switch c.DefaultInnovationLevel {
	case "conservative", "balanced", "experimental":
	default:
		return fmt.Errorf("%w: default_innovation_level must be conservative, balanced, or experimental, got %q",
			ErrInvalidConfig, c.DefaultInnovationLevel)
	}
	return nil
}
