// Package config loads umlc.toml. All settings are optional; a missing
// file yields the defaults.
//
// Example:
//
//	[run]
//	timeout = "10s"
//
//	[history]
//	enabled = true
//	max_entries = 500
//	retention = "720h"
//
//	[language.go]
//	name = "Go"
//	extension = ".go"
//	kind = "native"
//	compile = ["go", "build", "-o", "{output}", "{file}"]
//	run = ["{output}"]
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/pankaj-khatmode/umlc/pkg/language"
)

// Duration wraps time.Duration so TOML values read as "10s" or "2m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full umlc configuration.
type Config struct {
	Run       RunConfig                   `toml:"run"`
	History   HistoryConfig               `toml:"history"`
	Languages map[string]language.Profile `toml:"language"`
}

// RunConfig controls execution.
type RunConfig struct {
	// Timeout is the wall-clock ceiling per compile or run step.
	Timeout Duration `toml:"timeout"`
}

// HistoryConfig controls the local run-history database.
type HistoryConfig struct {
	Enabled    bool     `toml:"enabled"`
	Path       string   `toml:"path"`
	MaxEntries int      `toml:"max_entries"`
	Retention  Duration `toml:"retention"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Timeout: Duration(10 * time.Second),
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 500,
			Retention:  Duration(30 * 24 * time.Hour),
		},
	}
}

// DefaultHistoryPath is where the run-history database lives when the
// config does not override it.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "umlc", "history.db")
	}
	return filepath.Join(home, ".umlc", "history.db")
}

// Load reads configuration from path. An empty path searches umlc.toml in
// the working directory, then $HOME/.umlc/umlc.toml; if neither exists the
// defaults are returned. A path given explicitly must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = discover()
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Run.Timeout <= 0 {
		cfg.Run.Timeout = Duration(10 * time.Second)
	}
	return cfg, nil
}

// ApplyLanguages registers the config's custom language profiles. The table
// key becomes the profile ID.
func (c *Config) ApplyLanguages(reg *language.Registry) error {
	for id, p := range c.Languages {
		profile := p
		profile.ID = id
		if err := reg.Register(&profile); err != nil {
			return fmt.Errorf("config language %q: %w", id, err)
		}
	}
	return nil
}

func discover() string {
	if _, err := os.Stat("umlc.toml"); err == nil {
		return "umlc.toml"
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".umlc", "umlc.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
