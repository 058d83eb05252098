package driver

import (
	"context"

	"github.com/san-kum/mzsim/internal/fsi"
	"github.com/san-kum/mzsim/internal/zone"
)

// fsiDriver alternates solves of the two coupled zones through Block
// Gauss-Seidel until the exchanged interface quantity converges or the
// iteration cap is reached. Zone 0 solves first, always.
//
// Hitting the iteration cap is not a failure: the outer step completes
// with the last available state and the outcome stays readable through
// LastResult.
type fsiDriver struct {
	zones   []*zone.Container
	geo     zone.Geometry
	coupler *fsi.Coupler
	last    *fsi.Result
}

func (d *fsiDriver) Run(ctx context.Context) error {
	res, err := d.coupler.Run(ctx, d.zones[0], d.zones[1], d.geo)
	d.last = res
	return err
}

// LastResult returns the coupling outcome of the most recent outer step,
// or nil before the first step.
func (d *fsiDriver) LastResult() *fsi.Result { return d.last }
