package driver

import (
	"context"

	"github.com/san-kum/mzsim/internal/zone"
)

// singleZoneDriver advances the physics of the sole zone. No coupling.
type singleZoneDriver struct {
	zone *zone.Container
}

func (d *singleZoneDriver) Run(ctx context.Context) error {
	if err := d.zone.Iteration.Advance(ctx, d.zone.Index); err != nil {
		return &zone.AdvanceError{Zone: d.zone.Index, Wrapped: err}
	}
	return nil
}
