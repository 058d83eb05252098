package zone

import (
	"context"
	"math"
)

// Quantity is an interface coupling quantity exchanged between zones
// (traction, displacement, velocity).
type Quantity []float64

func (q Quantity) Clone() Quantity {
	c := make(Quantity, len(q))
	copy(c, q)
	return c
}

func (q Quantity) Norm() float64 {
	sum := 0.0
	for _, v := range q {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (q Quantity) Sub(other Quantity) Quantity {
	result := make(Quantity, len(q))
	for i := range q {
		if i < len(other) {
			result[i] = q[i] - other[i]
		} else {
			result[i] = q[i]
		}
	}
	return result
}

func (q Quantity) IsValid() bool {
	for _, v := range q {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// IterationStrategy progresses one zone's physics by one sub-step. It is
// the only operation the driver layer calls to advance a zone. A returned
// error wrapping ErrNumericalFailure means the solve diverged.
type IterationStrategy interface {
	Advance(ctx context.Context, zoneIndex int) error
}

// SolverSet is a zone's solution container as seen by the driver layer:
// interface coupling quantities plus the spectral source injection hook.
// Everything else a solver set holds is internal to the zone's physics.
type SolverSet interface {
	CouplingQuantity() Quantity
	SetCouplingQuantity(q Quantity)

	// ApplySpectralSource adds the operator-weighted contribution of all
	// periodic instances to this zone's source terms. D is row-ordered by
	// zone index; row zoneIndex belongs to this zone.
	ApplySpectralSource(d [][]float64, zoneIndex int) error
}

// Geometry is the mesh collaborator. Nodal histories are read across all
// zone instances; mesh velocities and deformations are written only for
// the owning zone.
type Geometry interface {
	// NodalHistory returns the zone's nodal positions as an
	// nPoints x nDim matrix.
	NodalHistory(zoneIndex int) [][]float64

	// SetMeshVelocity stores derived per-point velocities for the zone,
	// same shape as NodalHistory.
	SetMeshVelocity(zoneIndex int, vel [][]float64)

	// DeformMesh applies an interface displacement field to the zone's
	// mesh. Used by the FSI transfer step.
	DeformMesh(zoneIndex int, displacement Quantity) error
}

// IntegratorSet and NumericsSet are opaque method bundles owned per zone.
// The driver layer stores them so each zone's lifecycle is complete, but
// never calls into them; only the zone's own Advance does.
type (
	IntegratorSet any
	NumericsSet   any
)
