package zone

import "errors"

// Domain errors surfaced by zone advances and driver construction.
var (
	// ErrNumericalFailure indicates a zone's own solve diverged. The
	// orchestrator propagates it without retrying.
	ErrNumericalFailure = errors.New("zone: numerical failure during advance")

	// ErrConfigInconsistency indicates the zone/driver configuration is
	// unusable. Raised at construction time, before any run step executes.
	ErrConfigInconsistency = errors.New("zone: inconsistent configuration")

	// ErrZoneIndex indicates a zone index outside [0, nZone).
	ErrZoneIndex = errors.New("zone: index out of range")
)

// AdvanceError wraps a numerical failure with the zone it occurred in.
type AdvanceError struct {
	Zone    int
	Wrapped error
}

func (e *AdvanceError) Error() string {
	return e.Wrapped.Error()
}

func (e *AdvanceError) Unwrap() error {
	return e.Wrapped
}
