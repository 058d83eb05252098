// Package config loads and validates the run configuration: driver kind,
// zone count, spectral parameters, and BGS coupling settings. The config
// is read once at construction time and never mutated by the core.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mzsim/internal/zone"
)

const (
	DefaultNZone      = 4
	DefaultPeriod     = 2 * math.Pi
	DefaultRelaxation = 0.8
	DefaultTolerance  = 1e-8
	DefaultMaxBGSIter = 50
	DefaultOuterSteps = 10
)

type Config struct {
	Driver string  `yaml:"driver"`
	Model  string  `yaml:"model"`
	NZone  int     `yaml:"nzone"`
	Steps  int     `yaml:"steps"`
	Period float64 `yaml:"period"`

	// Frequencies switches the spectral driver to harmonic balance when
	// non-empty; the first entry must be the zero mode.
	Frequencies []float64 `yaml:"frequencies"`

	Coupling CouplingConfig     `yaml:"coupling"`
	Params   map[string]float64 `yaml:"params"`
}

type CouplingConfig struct {
	Relaxation    float64 `yaml:"relaxation"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
}

func DefaultConfig() *Config {
	return &Config{
		Driver: "spectral",
		Model:  "channel",
		NZone:  DefaultNZone,
		Steps:  DefaultOuterSteps,
		Period: DefaultPeriod,
		Coupling: CouplingConfig{
			Relaxation:    DefaultRelaxation,
			Tolerance:     DefaultTolerance,
			MaxIterations: DefaultMaxBGSIter,
		},
	}
}

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

// Validate checks the cross-field invariants that must hold before any
// driver is constructed.
func (c *Config) Validate() error {
	if c.NZone < 1 {
		return fmt.Errorf("%w: nzone must be >= 1, got %d", zone.ErrConfigInconsistency, c.NZone)
	}
	if c.Steps < 1 {
		return fmt.Errorf("%w: steps must be >= 1, got %d", zone.ErrConfigInconsistency, c.Steps)
	}

	switch c.Driver {
	case "single":
		if c.NZone != 1 {
			return fmt.Errorf("%w: single driver needs nzone = 1, got %d", zone.ErrConfigInconsistency, c.NZone)
		}
	case "multizone":
		// Any zone count.
	case "spectral":
		if c.Period <= 0 {
			return fmt.Errorf("%w: period must be positive, got %g", zone.ErrConfigInconsistency, c.Period)
		}
		if len(c.Frequencies) > 0 {
			if c.Frequencies[0] != 0 {
				return fmt.Errorf("%w: first frequency must be the zero mode", zone.ErrConfigInconsistency)
			}
			if want := 2*len(c.Frequencies) - 1; c.NZone != want {
				return fmt.Errorf("%w: %d frequencies need nzone = %d, got %d",
					zone.ErrConfigInconsistency, len(c.Frequencies), want, c.NZone)
			}
		}
	case "fsi":
		if c.NZone != 2 {
			return fmt.Errorf("%w: fsi driver needs nzone = 2, got %d", zone.ErrConfigInconsistency, c.NZone)
		}
		if c.Coupling.Relaxation <= 0 || c.Coupling.Relaxation > 1 {
			return fmt.Errorf("%w: relaxation must be in (0, 1], got %g",
				zone.ErrConfigInconsistency, c.Coupling.Relaxation)
		}
		if c.Coupling.Tolerance <= 0 {
			return fmt.Errorf("%w: tolerance must be positive, got %g",
				zone.ErrConfigInconsistency, c.Coupling.Tolerance)
		}
		if c.Coupling.MaxIterations < 1 {
			return fmt.Errorf("%w: max_iterations must be >= 1, got %d",
				zone.ErrConfigInconsistency, c.Coupling.MaxIterations)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", zone.ErrConfigInconsistency, c.Driver)
	}
	return nil
}
