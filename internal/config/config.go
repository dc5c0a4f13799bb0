package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/viper"

	"github.com/andywolf/codelens/internal/scanner"
)

// Config represents the full codelens configuration
type Config struct {
	Analysis AnalysisConfig  `mapstructure:"analysis" yaml:"analysis"`
	Output   OutputConfig    `mapstructure:"output" yaml:"output"`
	History  HistoryConfig   `mapstructure:"history" yaml:"history"`
	Weights  scanner.Weights `mapstructure:"weights" yaml:"weights"`
}

// AnalysisConfig controls file collection and the worker pool
type AnalysisConfig struct {
	Workers         int      `mapstructure:"workers" yaml:"workers"`
	MaxFiles        int      `mapstructure:"max_files" yaml:"max_files"`
	MaxFileSize     int64    `mapstructure:"max_file_size" yaml:"max_file_size"` // bytes
	Exclude         []string `mapstructure:"exclude" yaml:"exclude,omitempty"`
	IncludeVendored bool     `mapstructure:"include_vendored" yaml:"include_vendored"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // json, yaml, or text
	Path   string `mapstructure:"path" yaml:"path,omitempty"`
}

// HistoryConfig controls the run history log
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// Default values applied to unset fields
const (
	DefaultMaxFiles    = 10000
	DefaultMaxFileSize = 1 << 20
	DefaultFormat      = "text"
	DefaultHistoryPath = ".codelens/history.jsonl"
)

var validFormats = map[string]bool{"json": true, "yaml": true, "text": true}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration from the given viper instance
func LoadFrom(v *viper.Viper) (*Config, error) {
	// Weights start from the calibrated set so a config file only needs to
	// name the constants it overrides.
	cfg := &Config{Weights: scanner.DefaultWeights()}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply defaults
	applyDefaults(cfg)

	return cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{Weights: scanner.DefaultWeights(), History: HistoryConfig{Enabled: true}}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = runtime.NumCPU()
	}

	if cfg.Analysis.MaxFiles == 0 {
		cfg.Analysis.MaxFiles = DefaultMaxFiles
	}

	if cfg.Analysis.MaxFileSize == 0 {
		cfg.Analysis.MaxFileSize = DefaultMaxFileSize
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultFormat
	}

	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("invalid workers: %d (must be positive)", c.Analysis.Workers)
	}

	if c.Analysis.MaxFiles < 0 {
		return fmt.Errorf("invalid max_files: %d (must be positive)", c.Analysis.MaxFiles)
	}

	if c.Analysis.MaxFileSize < 0 {
		return fmt.Errorf("invalid max_file_size: %d (must be positive)", c.Analysis.MaxFileSize)
	}

	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be json, yaml, or text)", c.Output.Format)
	}

	return validateWeights(c.Weights)
}

func validateWeights(w scanner.Weights) error {
	for name, v := range map[string]float64{
		"shebang":   w.Shebang,
		"extension": w.Extension,
		"syntax":    w.Syntax,
		"pattern":   w.Pattern,
		"keyword":   w.Keyword,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("invalid weights.%s: %v (must be between 0 and 1)", name, v)
		}
	}

	for name, v := range map[string]float64{
		"frontend_threshold": w.FrontendThreshold,
		"backend_threshold":  w.BackendThreshold,
		"mobile_threshold":   w.MobileThreshold,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("invalid weights.%s: %v (must be between 0 and 100)", name, v)
		}
	}

	if !(w.RiskMedium < w.RiskHigh && w.RiskHigh < w.RiskCritical) {
		return fmt.Errorf("risk thresholds must increase: medium %d, high %d, critical %d",
			w.RiskMedium, w.RiskHigh, w.RiskCritical)
	}

	if w.CompliancePenalty < 0 {
		return fmt.Errorf("invalid weights.compliance_penalty: %d (must not be negative)", w.CompliancePenalty)
	}

	return nil
}
