// Package config loads engine configuration from TOML with sane
// defaults, so the CLI and embedding applications share one knob
// surface.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the engine configuration.
type Config struct {
	Timeline TimelineConfig `toml:"timeline"`
	Queue    QueueConfig    `toml:"queue"`
	Store    StoreConfig    `toml:"store"`
}

// TimelineConfig controls the coordinate math defaults.
type TimelineConfig struct {
	// FPS is the project frame rate assumed by frame/duration
	// conversions.
	FPS int `toml:"fps"`
}

// QueueConfig controls the persistence write queue.
type QueueConfig struct {
	// IntervalMS is the minimum gap between persistence writes, in
	// milliseconds.
	IntervalMS int `toml:"interval_ms"`

	// Immediate starts the first write of a drain without the delay.
	Immediate bool `toml:"immediate"`
}

// StoreConfig locates the project database.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string `toml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timeline: TimelineConfig{FPS: 30},
		Queue:    QueueConfig{IntervalMS: 16, Immediate: false},
		Store:    StoreConfig{Path: "clipline.db"},
	}
}

// Load reads a TOML file over the defaults. A missing file is not an
// error; the defaults apply unchanged. Unknown keys are tolerated so
// configs can be shared across versions.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Interval returns the queue interval as a duration.
func (c QueueConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

func (c Config) validate() error {
	if c.Timeline.FPS <= 0 {
		return fmt.Errorf("timeline.fps must be positive, got %d", c.Timeline.FPS)
	}
	if c.Queue.IntervalMS < 0 {
		return fmt.Errorf("queue.interval_ms must not be negative, got %d", c.Queue.IntervalMS)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	return nil
}
