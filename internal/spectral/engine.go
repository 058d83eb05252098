package spectral

import (
	"fmt"

	"github.com/san-kum/mzsim/internal/zone"
)

// Params are the inputs that define the coupling operator. The engine
// rebuilds only when they change.
type Params struct {
	NZone  int
	Period float64

	// Omega is the ordered harmonic frequency set (zero mode first).
	// Empty means equally spaced time-spectral collocation.
	Omega []float64
}

// Validate checks the parameters without building the operator, so
// configuration errors surface at construction time.
func (p Params) Validate() error {
	if p.NZone < 1 {
		return fmt.Errorf("%w: nZone must be >= 1, got %d", zone.ErrConfigInconsistency, p.NZone)
	}
	if p.Period <= 0 {
		return fmt.Errorf("%w: period must be positive, got %g", zone.ErrConfigInconsistency, p.Period)
	}
	if len(p.Omega) > 0 {
		return validateHarmonics(p.NZone, p.Period, p.Omega)
	}
	return nil
}

func (p Params) equal(other Params) bool {
	if p.NZone != other.NZone || p.Period != other.Period || len(p.Omega) != len(other.Omega) {
		return false
	}
	for i := range p.Omega {
		if p.Omega[i] != other.Omega[i] {
			return false
		}
	}
	return true
}

// Engine caches the built operator across outer steps. Construction is
// O(nZone^3) for harmonic balance, so rebuilding every step is not
// acceptable; the cached matrix is shared read-only once built.
type Engine struct {
	params   Params
	operator [][]float64
	rebuilds int
}

func NewEngine() *Engine {
	return &Engine{}
}

// Operator returns the coupling operator for p, rebuilding it only when p
// differs from the cached parameters. Callers must treat the returned
// matrix as read-only.
func (e *Engine) Operator(p Params) ([][]float64, error) {
	if e.operator != nil && e.params.equal(p) {
		return e.operator, nil
	}

	var (
		d   [][]float64
		err error
	)
	if len(p.Omega) > 0 {
		d, err = HarmonicBalanceOperator(p.NZone, p.Period, p.Omega)
	} else {
		d, err = TimeSpectralOperator(p.NZone, p.Period)
	}
	if err != nil {
		return nil, err
	}

	e.params = p
	e.params.Omega = append([]float64(nil), p.Omega...)
	e.operator = d
	e.rebuilds++
	return d, nil
}

// Rebuilds reports how many times the operator was actually recomputed.
func (e *Engine) Rebuilds() int { return e.rebuilds }
