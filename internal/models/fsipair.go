package models

import (
	"context"
	"fmt"

	"github.com/san-kum/mzsim/internal/zone"
)

// FluidZone models the fluid side of a linear interface problem: the
// surface traction it produces is an affine response to the interface
// displacement it receives.
type FluidZone struct {
	Gain   float64
	Load0  float64
	disp   zone.Quantity
	trac   zone.Quantity
	solves int
}

func NewFluidZone(gain, load0 float64) *FluidZone {
	return &FluidZone{Gain: gain, Load0: load0, disp: zone.Quantity{0}}
}

func (z *FluidZone) Advance(ctx context.Context, zoneIndex int) error {
	z.solves++
	z.trac = zone.Quantity{z.Gain*z.disp[0] + z.Load0}
	if !z.trac.IsValid() {
		return fmt.Errorf("%w: fluid traction diverged", zone.ErrNumericalFailure)
	}
	return nil
}

func (z *FluidZone) CouplingQuantity() zone.Quantity     { return z.trac }
func (z *FluidZone) SetCouplingQuantity(q zone.Quantity) { z.disp = q.Clone() }
func (z *FluidZone) ApplySpectralSource(d [][]float64, zoneIndex int) error {
	return nil
}

// Solves reports how many sub-iterations the zone has run.
func (z *FluidZone) Solves() int { return z.solves }

// StructureZone is the matching structural side: interface deflection is
// an affine response to the applied traction.
type StructureZone struct {
	Compliance float64
	Rest       float64
	trac       zone.Quantity
	disp       zone.Quantity
}

func NewStructureZone(compliance, rest float64) *StructureZone {
	return &StructureZone{Compliance: compliance, Rest: rest, trac: zone.Quantity{0}}
}

func (z *StructureZone) Advance(ctx context.Context, zoneIndex int) error {
	z.disp = zone.Quantity{z.Compliance*z.trac[0] + z.Rest}
	if !z.disp.IsValid() {
		return fmt.Errorf("%w: structural deflection diverged", zone.ErrNumericalFailure)
	}
	return nil
}

func (z *StructureZone) CouplingQuantity() zone.Quantity     { return z.disp }
func (z *StructureZone) SetCouplingQuantity(q zone.Quantity) { z.trac = q.Clone() }
func (z *StructureZone) ApplySpectralSource(d [][]float64, zoneIndex int) error {
	return nil
}

// FixedPoint returns the joint equilibrium displacement of a fluid and
// structure pair, for |gain*compliance| < 1.
func FixedPoint(f *FluidZone, s *StructureZone) float64 {
	return (s.Compliance*f.Load0 + s.Rest) / (1 - s.Compliance*f.Gain)
}
