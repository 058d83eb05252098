package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mzsim/internal/zone"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := DefaultConfig()
	cfg.Driver = "fsi"
	cfg.Model = "fsipair"
	cfg.NZone = 2
	cfg.Coupling.Relaxation = 0.6
	cfg.Params = map[string]float64{"gain_a": 0.5}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Driver != "fsi" || loaded.NZone != 2 {
		t.Errorf("loaded %q/%d, want fsi/2", loaded.Driver, loaded.NZone)
	}
	if loaded.Coupling.Relaxation != 0.6 {
		t.Errorf("relaxation %g, want 0.6", loaded.Coupling.Relaxation)
	}
	if loaded.Params["gain_a"] != 0.5 {
		t.Errorf("params not preserved: %v", loaded.Params)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(path, []byte("driver: multizone\nnzone: 3\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Steps != DefaultOuterSteps {
		t.Errorf("steps %d, want default %d", cfg.Steps, DefaultOuterSteps)
	}
	if cfg.Coupling.MaxIterations != DefaultMaxBGSIter {
		t.Errorf("max iterations %d, want default %d", cfg.Coupling.MaxIterations, DefaultMaxBGSIter)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config { return DefaultConfig() }

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero zones", func(c *Config) { c.NZone = 0 }},
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"unknown driver", func(c *Config) { c.Driver = "turbo" }},
		{"single with many zones", func(c *Config) { c.Driver = "single"; c.NZone = 3 }},
		{"spectral zero period", func(c *Config) { c.Period = 0 }},
		{"harmonics missing zero mode", func(c *Config) { c.NZone = 3; c.Frequencies = []float64{1, 2} }},
		{"harmonics count mismatch", func(c *Config) { c.NZone = 4; c.Frequencies = []float64{0, 1} }},
		{"fsi wrong zone count", func(c *Config) { c.Driver = "fsi"; c.NZone = 3 }},
		{"fsi zero relaxation", func(c *Config) {
			c.Driver = "fsi"
			c.NZone = 2
			c.Coupling.Relaxation = 0
		}},
		{"fsi zero tolerance", func(c *Config) {
			c.Driver = "fsi"
			c.NZone = 2
			c.Coupling.Tolerance = 0
		}},
		{"fsi zero cap", func(c *Config) {
			c.Driver = "fsi"
			c.NZone = 2
			c.Coupling.MaxIterations = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, zone.ErrConfigInconsistency) {
				t.Errorf("expected ErrConfigInconsistency, got %v", err)
			}
		})
	}

	valid := base()
	valid.Driver = "fsi"
	valid.NZone = 2
	if err := valid.Validate(); err != nil {
		t.Errorf("valid fsi config rejected: %v", err)
	}
}
