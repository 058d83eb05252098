package driver

import (
	"context"

	"github.com/san-kum/mzsim/internal/spectral"
	"github.com/san-kum/mzsim/internal/zone"
)

// spectralDriver couples the periodic zone instances through the spectral
// derivative operator. Each outer step injects the operator-weighted
// contribution of all instances into every zone's source terms before
// delegating to the zone's own physics solve.
//
// The operator is rebuilt only when its parameters change; after every
// rebuild the stored mesh positions are transformed into per-zone mesh
// velocities. The built matrix is shared read-only across zones.
type spectralDriver struct {
	zones  []*zone.Container
	geo    zone.Geometry
	params spectral.Params
	engine *spectral.Engine
}

// SetPeriod updates the modeled period; the operator is rebuilt on the
// next Run.
func (d *spectralDriver) SetPeriod(period float64) {
	d.params.Period = period
}

func (d *spectralDriver) Run(ctx context.Context) error {
	before := d.engine.Rebuilds()
	op, err := d.engine.Operator(d.params)
	if err != nil {
		return err
	}
	if d.engine.Rebuilds() != before {
		if err := spectral.MeshVelocities(op, d.geo); err != nil {
			return err
		}
	}

	for _, z := range d.zones {
		if err := z.Solvers.ApplySpectralSource(op, z.Index); err != nil {
			return err
		}
	}

	for _, z := range d.zones {
		if err := z.Iteration.Advance(ctx, z.Index); err != nil {
			return &zone.AdvanceError{Zone: z.Index, Wrapped: err}
		}
	}
	return nil
}

// Rebuilds reports how many times the operator was recomputed.
func (d *spectralDriver) Rebuilds() int { return d.engine.Rebuilds() }
