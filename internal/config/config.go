package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dtesn/internal/enum"
)

const (
	DefaultSpectralRadius = 0.9
	DefaultInputScaling   = 0.1
	DefaultLeakRate       = 0.3
	DefaultConnectivity   = 0.1

	DefaultMembraneEvolutionMaxUS  = 10
	DefaultBSeriesComputationMaxUS = 100
	DefaultESNStateUpdateMaxMS     = 1
	DefaultContextSwitchMaxUS      = 5
)

type Config struct {
	Name              string        `yaml:"name"`
	Version           string        `yaml:"version"`
	MaxDepth          int           `yaml:"max_depth"`
	MembraneHierarchy []LevelConfig `yaml:"membrane_hierarchy"`
	ESNParameters     ESNConfig     `yaml:"esn_parameters"`
	TimingConstraints TimingConfig  `yaml:"timing_constraints"`
}

// LevelConfig declares one depth level of the membrane hierarchy.
type LevelConfig struct {
	Level   int    `yaml:"level"`
	Count   int    `yaml:"count"`
	Neurons int    `yaml:"neurons"`
	Type    string `yaml:"type"`
}

type ESNConfig struct {
	SpectralRadius float64 `yaml:"spectral_radius"`
	InputScaling   float64 `yaml:"input_scaling"`
	LeakRate       float64 `yaml:"leak_rate"`
	Connectivity   float64 `yaml:"connectivity"`
}

type TimingConfig struct {
	MembraneEvolutionMaxUS  int `yaml:"membrane_evolution_max_us"`
	BSeriesComputationMaxUS int `yaml:"bseries_computation_max_us"`
	ESNStateUpdateMaxMS     int `yaml:"esn_state_update_max_ms"`
	ContextSwitchMaxUS      int `yaml:"context_switch_max_us"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:     "dtesn_default",
		Version:  "1.0",
		MaxDepth: 4,
		MembraneHierarchy: []LevelConfig{
			{Level: 0, Count: 1, Neurons: 100, Type: "root"},
			{Level: 1, Count: 1, Neurons: 80, Type: "trunk"},
			{Level: 2, Count: 1, Neurons: 60, Type: "branch"},
			{Level: 3, Count: 2, Neurons: 40, Type: "leaf"},
			{Level: 4, Count: 4, Neurons: 20, Type: "terminal"},
		},
		ESNParameters: ESNConfig{
			SpectralRadius: DefaultSpectralRadius,
			InputScaling:   DefaultInputScaling,
			LeakRate:       DefaultLeakRate,
			Connectivity:   DefaultConnectivity,
		},
		TimingConstraints: TimingConfig{
			MembraneEvolutionMaxUS:  DefaultMembraneEvolutionMaxUS,
			BSeriesComputationMaxUS: DefaultBSeriesComputationMaxUS,
			ESNStateUpdateMaxMS:     DefaultESNStateUpdateMaxMS,
			ContextSwitchMaxUS:      DefaultContextSwitchMaxUS,
		},
	}
}

// Load reads a YAML config, layering it over the defaults so partial
// files stay valid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the declared level counts against the A000081
// enumeration (level 0 always expects exactly one root). It returns an
// ordered list of violations; empty means compliant.
func (c *Config) Validate() []string {
	return c.ValidateWith(enum.Default())
}

// ValidateWith is Validate with an explicit enumeration provider.
func (c *Config) ValidateWith(provider enum.Provider) []string {
	var violations []string

	counts := make(map[int]int)
	for _, lvl := range c.MembraneHierarchy {
		counts[lvl.Level] += lvl.Count
	}

	for d := 0; d <= c.MaxDepth; d++ {
		expected := int64(1)
		if d > 0 {
			term, err := provider.Term(d)
			if err != nil {
				violations = append(violations,
					fmt.Sprintf("max depth %d exceeds available enumeration data: %v", c.MaxDepth, err))
				break
			}
			expected = term
		}

		got, ok := counts[d]
		if !ok {
			violations = append(violations, fmt.Sprintf("missing membrane level %d", d))
			continue
		}
		if int64(got) != expected {
			violations = append(violations,
				fmt.Sprintf("level %d has count %d, expected %d (A000081)", d, got, expected))
		}
	}

	for _, lvl := range c.MembraneHierarchy {
		if lvl.Level > c.MaxDepth {
			violations = append(violations,
				fmt.Sprintf("extra membrane level %d beyond max depth %d", lvl.Level, c.MaxDepth))
		}
	}

	return violations
}
