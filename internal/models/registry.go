package models

import (
	"fmt"

	"github.com/san-kum/mzsim/internal/config"
	"github.com/san-kum/mzsim/internal/zone"
)

// Build assembles the zone containers and geometry for the configured
// model. This is the preprocessing stage: everything a driver needs
// exists before the driver itself is constructed.
func Build(cfg *config.Config) ([]*zone.Container, zone.Geometry, error) {
	switch cfg.Model {
	case "channel":
		return buildChannel(cfg)
	case "fsipair":
		return buildFSIPair(cfg)
	default:
		return nil, nil, fmt.Errorf("%w: unknown model %q", zone.ErrConfigInconsistency, cfg.Model)
	}
}

func param(cfg *config.Config, name string, def float64) float64 {
	if v, ok := cfg.Params[name]; ok {
		return v
	}
	return def
}

func buildChannel(cfg *config.Config) ([]*zone.Container, zone.Geometry, error) {
	lambda := param(cfg, "lambda", 1.0)
	amplitude := param(cfg, "amplitude", 1.0)
	points := int(param(cfg, "mesh_points", 8))
	meshAmp := param(cfg, "mesh_amplitude", 0.1)

	impls := NewChannelZones(cfg.NZone, cfg.Period, lambda, amplitude)
	zones := make([]*zone.Container, len(impls))
	for i, impl := range impls {
		z, err := zone.NewContainer(i, impl, impl)
		if err != nil {
			return nil, nil, err
		}
		zones[i] = z
	}
	return zones, NewRingGeometry(cfg.NZone, points, meshAmp), nil
}

func buildFSIPair(cfg *config.Config) ([]*zone.Container, zone.Geometry, error) {
	fluid := NewFluidZone(param(cfg, "gain", 0.5), param(cfg, "load", 1.0))
	structure := NewStructureZone(param(cfg, "compliance", 0.4), param(cfg, "rest", 0.0))

	zf, err := zone.NewContainer(0, fluid, fluid)
	if err != nil {
		return nil, nil, err
	}
	zs, err := zone.NewContainer(1, structure, structure)
	if err != nil {
		return nil, nil, err
	}
	return []*zone.Container{zf, zs}, NewRingGeometry(2, int(param(cfg, "mesh_points", 8)), 0.1), nil
}
