// Package config loads the YAML configuration of the struck program.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/swdee/go-struck/features"
	"github.com/swdee/go-struck/kernel"
	"github.com/swdee/go-struck/larank"
	"github.com/swdee/go-struck/tracker"
	"gopkg.in/yaml.v3"
)

// Config represents the complete program configuration
type Config struct {
	// QuietMode disables the display window
	QuietMode bool `yaml:"quiet_mode"`
	// DebugMode shows the score map and logs learner state
	DebugMode bool `yaml:"debug_mode"`
	// SequenceBasePath is the directory holding the sequences
	SequenceBasePath string `yaml:"sequence_base_path"`
	// SequenceName selects a sequence, empty selects the camera
	SequenceName string `yaml:"sequence_name"`
	// ResultsPath is the results file, empty disables it
	ResultsPath string `yaml:"results_path"`
	// FrameWidth and FrameHeight are the working frame size
	FrameWidth  int `yaml:"frame_width"`
	FrameHeight int `yaml:"frame_height"`

	Seed           uint64  `yaml:"seed"`
	SearchRadius   int     `yaml:"search_radius"`
	SVMC           float64 `yaml:"svm_c"`
	SVMBudgetSize  int     `yaml:"svm_budget_size"`
	Workers        int     `yaml:"workers"`
	ReprocessCount int     `yaml:"reprocess_count"`
	OptimizeCount  int     `yaml:"optimize_count"`
	// Eviction is the budget maintenance policy, weight or effect
	Eviction string          `yaml:"eviction"`
	Features []FeatureConfig `yaml:"features"`
}

// FeatureConfig defines one feature/kernel pair
type FeatureConfig struct {
	Feature string    `yaml:"feature"` // haar, raw, histogram
	Kernel  string    `yaml:"kernel"`  // linear, gaussian, intersection, chi2
	Params  []float64 `yaml:"params"`  // gaussian takes gamma
}

// Default returns the configuration applied before a file is parsed
func Default() Config {

	tc := tracker.DefaultConfig()

	return Config{
		SequenceBasePath: "./sequences",
		FrameWidth:       320,
		FrameHeight:      240,
		SearchRadius:     tc.SearchRadius,
		SVMC:             tc.SVMC,
		SVMBudgetSize:    tc.SVBudgetSize,
		Workers:          tc.Workers,
		ReprocessCount:   tc.ReprocessCount,
		OptimizeCount:    tc.OptimizeCount,
		Eviction:         tc.Eviction.String(),
	}
}

// Load reads and parses a YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses a YAML configuration over the defaults.  At least one
// feature must be configured.
func Parse(data []byte) (*Config, error) {

	cfg := Default()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration
func Validate(cfg *Config) error {

	if cfg.FrameWidth <= 0 || cfg.FrameHeight <= 0 {
		return fmt.Errorf("frame size must be positive, got %dx%d", cfg.FrameWidth, cfg.FrameHeight)
	}

	if cfg.SequenceName != "" && cfg.SequenceBasePath == "" {
		return errors.New("sequence_base_path is required with sequence_name")
	}

	tc, err := cfg.TrackerConfig()
	if err != nil {
		return err
	}

	return tc.Validate()
}

// TrackerConfig converts the configuration to tracker parameters
func (c *Config) TrackerConfig() (tracker.Config, error) {

	eviction, err := larank.ParseEvictionPolicy(c.Eviction)
	if err != nil {
		return tracker.Config{}, err
	}

	tc := tracker.Config{
		SearchRadius:   c.SearchRadius,
		SVMC:           c.SVMC,
		SVBudgetSize:   c.SVMBudgetSize,
		Seed:           c.Seed,
		Workers:        c.Workers,
		ReprocessCount: c.ReprocessCount,
		OptimizeCount:  c.OptimizeCount,
		Eviction:       eviction,
		Verbose:        c.DebugMode,
	}

	for i, fc := range c.Features {
		ft, err := features.ParseFeatureType(fc.Feature)
		if err != nil {
			return tracker.Config{}, fmt.Errorf("features[%d]: %w", i, err)
		}

		kt, err := kernel.ParseKernelType(fc.Kernel)
		if err != nil {
			return tracker.Config{}, fmt.Errorf("features[%d]: %w", i, err)
		}

		tc.Features = append(tc.Features, tracker.FeatureKernel{
			Feature: ft,
			Kernel:  kt,
			Params:  fc.Params,
		})
	}

	return tc, nil
}
