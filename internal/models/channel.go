// Package models provides the built-in zone physics the CLI wires into the
// driver layer: a periodically forced relaxation problem for the spectral
// drivers and a linear fluid/structure pair for the FSI driver. Real
// deployments supply their own implementations of the zone interfaces;
// these exist so a run works end to end out of the box.
package models

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/mzsim/internal/zone"
)

// ChannelZone is one periodic instance of a forced scalar relaxation
// problem
//
//	dq/dt = -lambda*(q - f(t)),  f(t) = amplitude*cos(2*pi*t/period)
//
// The spectral driver injects the operator-weighted time derivative as a
// source term; Advance then drives the instance toward the source-balanced
// steady state with damped pseudo-time iterations. When all instances
// balance, the set samples the periodic solution of the ODE.
type ChannelZone struct {
	index     int
	lambda    float64
	forcing   float64
	pseudoDt  float64
	innerIter int

	q      float64
	source float64

	// set is the full instance table this zone belongs to; the spectral
	// source couples every instance's state.
	set []*ChannelZone
}

// NewChannelZones builds the full periodic instance set. Forcing is
// sampled at the nZone uniform instants over period.
func NewChannelZones(nZone int, period, lambda, amplitude float64) []*ChannelZone {
	zones := make([]*ChannelZone, nZone)
	for i := 0; i < nZone; i++ {
		t := period * float64(i) / float64(nZone)
		zones[i] = &ChannelZone{
			index:     i,
			lambda:    lambda,
			forcing:   amplitude * math.Cos(2 * math.Pi * t / period),
			pseudoDt:  0.5 / (lambda + 2*math.Pi/period),
			innerIter: 20,
		}
	}
	for _, z := range zones {
		z.set = zones
	}
	return zones
}

func (z *ChannelZone) Advance(ctx context.Context, zoneIndex int) error {
	for i := 0; i < z.innerIter; i++ {
		residual := z.source + z.lambda*(z.q-z.forcing)
		z.q -= z.pseudoDt * residual
	}
	if math.IsNaN(z.q) || math.IsInf(z.q, 0) {
		return fmt.Errorf("%w: channel instance %d diverged", zone.ErrNumericalFailure, z.index)
	}
	return nil
}

func (z *ChannelZone) CouplingQuantity() zone.Quantity     { return zone.Quantity{z.q} }
func (z *ChannelZone) SetCouplingQuantity(q zone.Quantity) {
	if len(q) > 0 {
		z.q = q[0]
	}
}

// ApplySpectralSource stores this instance's row of the operator applied
// to the current state of the whole set. The states slice is captured at
// build time through the shared set, so the source reflects the latest
// accepted values of every instance.
func (z *ChannelZone) ApplySpectralSource(d [][]float64, zoneIndex int) error {
	if zoneIndex != z.index {
		return fmt.Errorf("%w: source for zone %d applied to instance %d",
			zone.ErrConfigInconsistency, zoneIndex, z.index)
	}
	if z.set == nil {
		return fmt.Errorf("%w: channel instance %d not bound to a set",
			zone.ErrConfigInconsistency, z.index)
	}
	src := 0.0
	for j, other := range z.set {
		src += d[zoneIndex][j] * other.q
	}
	z.source = src
	return nil
}

// Value returns the instance's current solution sample.
func (z *ChannelZone) Value() float64 { return z.q }
