// Package driver contains the orchestration hierarchy that advances a
// multi-zone simulation by one outer step. One driver is built per run;
// each outer step is a single Run call. Four variants share the contract:
// single-zone, uncoupled multi-zone, spectral (time-spectral or harmonic
// balance), and FSI (Block Gauss-Seidel between two zones).
//
// The orchestration layer is single-threaded and step-ordered: it issues
// one zone's advance, waits for completion, then proceeds. Zone ordering
// within a step is fixed and deterministic; for the spectral variant it
// encodes temporal phase.
package driver

import (
	"context"
	"fmt"

	"github.com/san-kum/mzsim/internal/fsi"
	"github.com/san-kum/mzsim/internal/spectral"
	"github.com/san-kum/mzsim/internal/zone"
)

// Kind selects the coupling strategy.
type Kind int

const (
	SingleZone Kind = iota
	MultiZone
	Spectral
	FSI
)

func (k Kind) String() string {
	switch k {
	case SingleZone:
		return "single"
	case MultiZone:
		return "multizone"
	case Spectral:
		return "spectral"
	case FSI:
		return "fsi"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// KindFromString maps a config name to a driver kind.
func KindFromString(s string) (Kind, error) {
	switch s {
	case "single":
		return SingleZone, nil
	case "multizone":
		return MultiZone, nil
	case "spectral":
		return Spectral, nil
	case "fsi":
		return FSI, nil
	default:
		return 0, fmt.Errorf("%w: unknown driver kind %q", zone.ErrConfigInconsistency, s)
	}
}

// Driver performs one outer advance over the zones it owns. Run mutates
// solver state in place; success means no zone solve reported a fatal
// numerical failure.
type Driver interface {
	Run(ctx context.Context) error
}

// Options carries the per-variant configuration consumed at construction.
type Options struct {
	// Spectral operator parameters (spectral variant). NZone must match
	// the zone table length.
	Spectral spectral.Params

	// BGS coupling settings (FSI variant).
	Relaxation    float64
	Tolerance     float64
	MaxIterations int
	Transfer      fsi.Transfer
}

// New builds the driver variant for kind. Construction validates the zone
// table and all variant invariants; configuration errors here are fatal
// before any run step executes.
func New(kind Kind, zones []*zone.Container, geo zone.Geometry, opts Options) (Driver, error) {
	if err := zone.CheckTable(zones); err != nil {
		return nil, err
	}

	switch kind {
	case SingleZone:
		if len(zones) != 1 {
			return nil, fmt.Errorf("%w: single-zone driver needs exactly 1 zone, got %d",
				zone.ErrConfigInconsistency, len(zones))
		}
		return &singleZoneDriver{zone: zones[0]}, nil

	case MultiZone:
		return &multiZoneDriver{zones: zones}, nil

	case Spectral:
		if geo == nil {
			return nil, fmt.Errorf("%w: spectral driver needs a geometry", zone.ErrConfigInconsistency)
		}
		if opts.Spectral.NZone != len(zones) {
			return nil, fmt.Errorf("%w: operator sized for %d zones, table has %d",
				zone.ErrConfigInconsistency, opts.Spectral.NZone, len(zones))
		}
		if err := opts.Spectral.Validate(); err != nil {
			return nil, err
		}
		return &spectralDriver{
			zones:  zones,
			geo:    geo,
			params: opts.Spectral,
			engine: spectral.NewEngine(),
		}, nil

	case FSI:
		if len(zones) != 2 {
			return nil, fmt.Errorf("%w: FSI driver needs exactly 2 zones, got %d",
				zone.ErrConfigInconsistency, len(zones))
		}
		if geo == nil {
			return nil, fmt.Errorf("%w: FSI driver needs a geometry", zone.ErrConfigInconsistency)
		}
		coupler := &fsi.Coupler{
			Relaxation:    opts.Relaxation,
			Tolerance:     opts.Tolerance,
			MaxIterations: opts.MaxIterations,
			Transfer:      opts.Transfer,
		}
		if err := coupler.Validate(); err != nil {
			return nil, err
		}
		return &fsiDriver{zones: zones, geo: geo, coupler: coupler}, nil

	default:
		return nil, fmt.Errorf("%w: unknown driver kind %v", zone.ErrConfigInconsistency, kind)
	}
}
