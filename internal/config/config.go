// Package config handles the optional ippcode.toml run configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the config file searched for when no path is given
const FileName = "ippcode.toml"

// Counter names accepted in [stats] counters
const (
	CounterInsts = "insts"
	CounterVars  = "vars"
)

// Config represents an ippcode.toml file.
type Config struct {
	Run   Run   `toml:"run"`
	Stats Stats `toml:"stats"`
	Log   Log   `toml:"log"`

	// Path is the file the config was loaded from (set at load time).
	Path string `toml:"-"`
}

// Run configures program execution.
type Run struct {
	Input    string `toml:"input"`
	MaxSteps int    `toml:"max_steps"`
}

// Stats configures the statistics file.
type Stats struct {
	File     string   `toml:"file"`
	Counters []string `toml:"counters"`
}

// Log configures the logger.
type Log struct {
	Verbose bool `toml:"verbose"`
	NoColor bool `toml:"no_color"`
}

// Load parses the config file at path. Relative paths inside the file are
// resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(c.Path)
	c.Run.Input = resolve(dir, c.Run.Input)
	c.Stats.File = resolve(dir, c.Stats.File)

	return &c, nil
}

// FindAndLoad walks up from startDir to find an ippcode.toml file,
// then loads and returns it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	if c.Run.MaxSteps < 0 {
		return fmt.Errorf("run.max_steps must not be negative")
	}

	for _, name := range c.Stats.Counters {
		if name != CounterInsts && name != CounterVars {
			return fmt.Errorf("unknown stats counter %q", name)
		}
	}

	if c.Stats.File == "" && len(c.Stats.Counters) > 0 {
		return fmt.Errorf("stats.counters given without stats.file")
	}
	if c.Stats.File != "" && len(c.Stats.Counters) == 0 {
		return fmt.Errorf("stats.file given without stats.counters")
	}
	return nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
