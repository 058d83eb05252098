// Package fsi couples two zones through Block Gauss-Seidel iteration:
// alternating full solves of both zones, exchanging interface quantities
// under relaxation, until the exchanged quantity stops changing or an
// iteration cap is reached.
package fsi

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/mzsim/internal/zone"
)

// Status is the terminal state of one coupling pass.
type Status int

const (
	// Converged means the exchanged quantity change dropped below the
	// tolerance.
	Converged Status = iota

	// MaxIterReached means the iteration cap was hit first. Non-fatal:
	// the outer step completes with the last available state, but the
	// outcome is reported.
	MaxIterReached
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case MaxIterReached:
		return "max iterations reached"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Transfer maps coupling quantities between the two interface
// representations. AToB carries zone A's output (e.g. surface traction)
// onto B; BToA carries B's output (e.g. interface displacement) back.
type Transfer interface {
	AToB(q zone.Quantity) zone.Quantity
	BToA(q zone.Quantity) zone.Quantity
}

// IdentityTransfer passes quantities through unchanged, for matched
// interface discretizations.
type IdentityTransfer struct{}

func (IdentityTransfer) AToB(q zone.Quantity) zone.Quantity { return q }
func (IdentityTransfer) BToA(q zone.Quantity) zone.Quantity { return q }

// Result reports the outcome of one coupling pass. The residual history is
// kept so callers can render or export the convergence behavior.
type Result struct {
	Status     Status
	Iterations int
	Residual   float64
	History    []float64
}

// Coupler drives the BGS iteration between zone A and zone B. The
// relaxation factor and convergence settings are fixed configuration; no
// adaptivity. Coupling state lives only for the duration of one Run call.
type Coupler struct {
	Relaxation    float64
	Tolerance     float64
	MaxIterations int
	Transfer      Transfer
}

// Validate checks the coupling settings; they are fixed configuration
// and must be usable before any run step executes.
func (c *Coupler) Validate() error {
	if c.Relaxation <= 0 || c.Relaxation > 1 {
		return fmt.Errorf("%w: relaxation factor must be in (0, 1], got %g", zone.ErrConfigInconsistency, c.Relaxation)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("%w: convergence tolerance must be positive, got %g", zone.ErrConfigInconsistency, c.Tolerance)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be >= 1, got %d", zone.ErrConfigInconsistency, c.MaxIterations)
	}
	return nil
}

// Run performs one outer step of BGS coupling. The order is fixed: A
// solves first, then B, every iteration. A numerical failure in either
// zone aborts the pass; the partner zone's already-accepted state is left
// untouched.
func (c *Coupler) Run(ctx context.Context, a, b *zone.Container, geo zone.Geometry) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	transfer := c.Transfer
	if transfer == nil {
		transfer = IdentityTransfer{}
	}

	res := &Result{
		Residual: math.Inf(1),
		History:  make([]float64, 0, c.MaxIterations),
	}

	// B's output from the previous outer step seeds the convergence check.
	prevExchanged := b.Solvers.CouplingQuantity().Clone()

	// B's last accepted input, for relaxation. Nil until the first
	// transfer: the first computed load is taken as-is.
	var prevLoad zone.Quantity

	for {
		res.Iterations++

		// Zone A advances with the latest quantity received from B.
		if err := a.Iteration.Advance(ctx, a.Index); err != nil {
			return res, &zone.AdvanceError{Zone: a.Index, Wrapped: err}
		}

		// Transfer A -> B, relaxed against B's previous input.
		load := transfer.AToB(a.Solvers.CouplingQuantity()).Clone()
		if prevLoad != nil {
			for i := range load {
				load[i] = prevLoad[i] + c.Relaxation*(load[i]-prevLoad[i])
			}
		}
		b.Solvers.SetCouplingQuantity(load)
		prevLoad = load

		if err := b.Iteration.Advance(ctx, b.Index); err != nil {
			return res, &zone.AdvanceError{Zone: b.Index, Wrapped: err}
		}

		// Transfer B -> A and deform A's mesh with the new interface
		// displacement.
		exchanged := transfer.BToA(b.Solvers.CouplingQuantity()).Clone()
		a.Solvers.SetCouplingQuantity(exchanged)
		if err := geo.DeformMesh(a.Index, exchanged); err != nil {
			return res, err
		}

		res.Residual = exchanged.Sub(prevExchanged).Norm()
		res.History = append(res.History, res.Residual)
		prevExchanged = exchanged

		if res.Residual < c.Tolerance {
			res.Status = Converged
			return res, nil
		}
		if res.Iterations >= c.MaxIterations {
			res.Status = MaxIterReached
			return res, nil
		}
	}
}
