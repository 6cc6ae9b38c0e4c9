// Package config loads CLI configuration for workcell.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for the workcell CLI.
// Precedence: environment variables > config file > defaults.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Output OutputConfig `toml:"output"`
	Solver SolverConfig `toml:"solver"`
	Ergo   ErgoConfig   `toml:"ergo"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// OutputConfig holds rendering output settings.
type OutputConfig struct {
	// Dir is where compiled nets are written as DOT files.
	Dir string `toml:"dir"`
}

// SolverConfig bounds the constraint searches.
type SolverConfig struct {
	// NodeBudget caps the number of search nodes per solve.
	NodeBudget int `toml:"node_budget"`
}

// ErgoConfig points at ergonomic table overrides.
type ErgoConfig struct {
	// TablePath is an optional TOML file overriding the built-in
	// ergonomic and timing tables.
	TablePath string `toml:"table_path"`
}

// Load creates a Config by reading a TOML config file and environment
// variables. Precedence: environment variables > config file >
// defaults.
//
// Config file search order (first found wins):
//  1. Path passed via configPath parameter (from --config flag)
//  2. WORKCELL_CONFIG environment variable
//  3. ./workcell.toml (current directory)
//  4. ~/.config/workcell/workcell.toml (XDG-style)
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		Log:    LogConfig{Level: "info"},
		Output: OutputConfig{Dir: "."},
		Solver: SolverConfig{NodeBudget: 2_000_000},
	}

	if err := cfg.loadFile(configPath); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile finds and parses the TOML config file. If no file is found,
// this is a no-op (config file is optional).
func (c *Config) loadFile(configPath string) error {
	path := resolveConfigPath(configPath)
	if path == "" {
		return nil
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("WORKCELL_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("workcell.toml"); err == nil {
		return "workcell.toml"
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "workcell", "workcell.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) applyEnv() {
	if v := os.Getenv("WORKCELL_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("WORKCELL_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("WORKCELL_SOLVER_NODE_BUDGET"); v != "" {
		if budget, err := strconv.Atoi(v); err == nil {
			c.Solver.NodeBudget = budget
		}
	}
	if v := os.Getenv("WORKCELL_ERGO_TABLE"); v != "" {
		c.Ergo.TablePath = v
	}
}

// Validate rejects configurations the CLI cannot run with.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (want debug, info, warn, or error)", c.Log.Level)
	}
	if c.Solver.NodeBudget <= 0 {
		return fmt.Errorf("solver node budget must be positive, got %d", c.Solver.NodeBudget)
	}
	return nil
}
