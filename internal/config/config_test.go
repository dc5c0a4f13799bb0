package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/andywolf/codelens/internal/scanner"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Analysis.Workers = -1 },
			wantErr: true,
			errMsg:  "invalid workers",
		},
		{
			name:    "negative max files",
			mutate:  func(c *Config) { c.Analysis.MaxFiles = -5 },
			wantErr: true,
			errMsg:  "invalid max_files",
		},
		{
			name:    "invalid format",
			mutate:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: true,
			errMsg:  "invalid output format",
		},
		{
			name:    "yaml format",
			mutate:  func(c *Config) { c.Output.Format = "yaml" },
			wantErr: false,
		},
		{
			name:    "method weight above one",
			mutate:  func(c *Config) { c.Weights.Syntax = 1.5 },
			wantErr: true,
			errMsg:  "invalid weights.syntax",
		},
		{
			name:    "threshold above 100",
			mutate:  func(c *Config) { c.Weights.MobileThreshold = 120 },
			wantErr: true,
			errMsg:  "invalid weights.mobile_threshold",
		},
		{
			name:    "risk thresholds out of order",
			mutate:  func(c *Config) { c.Weights.RiskHigh = 1 },
			wantErr: true,
			errMsg:  "risk thresholds must increase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Analysis.Workers != runtime.NumCPU() {
		t.Errorf("expected workers %d, got %d", runtime.NumCPU(), cfg.Analysis.Workers)
	}
	if cfg.Analysis.MaxFiles != DefaultMaxFiles {
		t.Errorf("expected max files %d, got %d", DefaultMaxFiles, cfg.Analysis.MaxFiles)
	}
	if cfg.Analysis.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("expected max file size %d, got %d", DefaultMaxFileSize, cfg.Analysis.MaxFileSize)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected format text, got %s", cfg.Output.Format)
	}
	if cfg.History.Path != DefaultHistoryPath {
		t.Errorf("expected history path %s, got %s", DefaultHistoryPath, cfg.History.Path)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Analysis: AnalysisConfig{Workers: 3, MaxFiles: 50},
		Output:   OutputConfig{Format: "json"},
	}
	applyDefaults(cfg)

	if cfg.Analysis.Workers != 3 || cfg.Analysis.MaxFiles != 50 || cfg.Output.Format != "json" {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
}

func TestLoadFrom_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".codelens.yaml")
	content := `analysis:
  workers: 2
  exclude:
    - "*.min.js"
output:
  format: json
history:
  enabled: true
weights:
  frontend_threshold: 75
  syntax: 0.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.Analysis.Workers != 2 {
		t.Errorf("expected workers 2, got %d", cfg.Analysis.Workers)
	}
	if len(cfg.Analysis.Exclude) != 1 || cfg.Analysis.Exclude[0] != "*.min.js" {
		t.Errorf("unexpected exclude list: %v", cfg.Analysis.Exclude)
	}
	if cfg.Output.Format != "json" || !cfg.History.Enabled {
		t.Errorf("unexpected output/history: %+v %+v", cfg.Output, cfg.History)
	}

	defaults := scanner.DefaultWeights()
	if cfg.Weights.FrontendThreshold != 75 || cfg.Weights.Syntax != 0.5 {
		t.Errorf("weight overrides not applied: %+v", cfg.Weights)
	}
	if cfg.Weights.BackendThreshold != defaults.BackendThreshold || cfg.Weights.MIBase != defaults.MIBase {
		t.Errorf("unset weights should keep defaults: %+v", cfg.Weights)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadFrom_Environment(t *testing.T) {
	t.Setenv("CODELENS_OUTPUT_FORMAT", "yaml")

	v := viper.New()
	v.SetEnvPrefix("CODELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("output.format", "")

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("expected env override yaml, got %q", cfg.Output.Format)
	}
}
