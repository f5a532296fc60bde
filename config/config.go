package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete PnL run configuration
type Config struct {
	Input             string           `json:"input" yaml:"input"`
	ReferenceCurrency string           `json:"reference_currency" yaml:"reference_currency"`
	Workers           int              `json:"workers" yaml:"workers"`
	Validation        ValidationConfig `json:"validation" yaml:"validation"`
	Output            OutputConfig     `json:"output" yaml:"output"`
	Journal           JournalConfig    `json:"journal" yaml:"journal"`
	Log               LogConfig        `json:"log" yaml:"log"`
}

// ValidationConfig controls the consistency check run before accounting
type ValidationConfig struct {
	Strict     bool   `json:"strict" yaml:"strict"` // abort on any non-warning issue
	IssuesFile string `json:"issues_file,omitempty" yaml:"issues_file,omitempty"`
}

// OutputConfig names the CSV datasets written by a run
type OutputConfig struct {
	ResultsFile  string `json:"results_file" yaml:"results_file"`
	ClosuresFile string `json:"closures_file,omitempty" yaml:"closures_file,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"` // empty disables the SQLite journal
}

// LogConfig selects the logger
type LogConfig struct {
	Level       string `json:"level" yaml:"level"` // debug, info, warn, error
	Development bool   `json:"development,omitempty" yaml:"development,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	if c.ReferenceCurrency == "" {
		return fmt.Errorf("reference_currency is required")
	}
	if strings.TrimSpace(c.ReferenceCurrency) != c.ReferenceCurrency {
		return fmt.Errorf("reference_currency must not contain spaces")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if c.Output.ResultsFile == "" {
		return fmt.Errorf("output.results_file is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Input:             "./trades.csv",
		ReferenceCurrency: "USD",
		Workers:           1,
		Validation: ValidationConfig{
			Strict:     true,
			IssuesFile: "./data_consistency_issues.csv",
		},
		Output: OutputConfig{
			ResultsFile: "./pl_by_instrument.csv",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
