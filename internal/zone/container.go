package zone

import "fmt"

// Container bundles the method objects one zone owns. It holds no behavior
// of its own; the driver layer reads its fields and calls their declared
// operations.
type Container struct {
	Index       int
	Iteration   IterationStrategy
	Solvers     SolverSet
	Integrators IntegratorSet
	Numerics    NumericsSet
}

// NewContainer builds a container for the given zone index. Iteration and
// solvers are required; integrator and numerics bundles may be nil when the
// zone's physics does not use them.
func NewContainer(index int, iter IterationStrategy, solvers SolverSet) (*Container, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: zone index %d", ErrZoneIndex, index)
	}
	if iter == nil {
		return nil, fmt.Errorf("%w: zone %d has no iteration strategy", ErrConfigInconsistency, index)
	}
	if solvers == nil {
		return nil, fmt.Errorf("%w: zone %d has no solver set", ErrConfigInconsistency, index)
	}
	return &Container{Index: index, Iteration: iter, Solvers: solvers}, nil
}

// CheckTable validates a zone table: non-empty, dense, and ordered so that
// zones[i].Index == i. Row/column ordering of the spectral operator encodes
// temporal phase, so the table order is semantically meaningful.
func CheckTable(zones []*Container) error {
	if len(zones) == 0 {
		return fmt.Errorf("%w: need at least one zone", ErrConfigInconsistency)
	}
	for i, z := range zones {
		if z == nil {
			return fmt.Errorf("%w: zone %d is nil", ErrConfigInconsistency, i)
		}
		if z.Index != i {
			return fmt.Errorf("%w: zone at position %d has index %d", ErrConfigInconsistency, i, z.Index)
		}
	}
	return nil
}
