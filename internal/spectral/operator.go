// Package spectral builds the dense coupling operators that relate periodic
// zone instances through time: the equally-spaced time-spectral operator and
// its arbitrary-frequency harmonic-balance generalization. The operator is
// expensive to build (harmonic balance requires a dense inversion), so the
// [Engine] caches it and rebuilds only when the defining parameters change.
package spectral

import (
	"fmt"
	"math"

	"github.com/san-kum/mzsim/internal/linalg"
	"github.com/san-kum/mzsim/internal/zone"
)

// TimeSpectralOperator builds the nZone x nZone derivative operator for a
// periodic signal sampled at nZone equally spaced instances over period.
// Applied to the sample vector it gives the spectral time derivative, exact
// for trigonometric polynomials of degree < nZone/2.
//
// Entries depend only on the zone-index difference; the odd and even
// sample-count cases use the 1/sin and 1/tan closed forms respectively,
// with the diagonal forced to zero. For fixed (nZone, period) the result
// is bit-for-bit reproducible.
func TimeSpectralOperator(nZone int, period float64) ([][]float64, error) {
	if nZone < 1 {
		return nil, fmt.Errorf("%w: nZone must be >= 1, got %d", zone.ErrConfigInconsistency, nZone)
	}
	if period <= 0 {
		return nil, fmt.Errorf("%w: period must be positive, got %g", zone.ErrConfigInconsistency, period)
	}

	d := linalg.NewMatrix(nZone, nZone)
	even := nZone%2 == 0
	for i := 0; i < nZone; i++ {
		for j := 0; j < nZone; j++ {
			if i == j {
				continue
			}
			sign := 1.0
			if (i-j)%2 != 0 {
				sign = -1.0
			}
			arg := math.Pi * float64(i-j) / float64(nZone)
			if even {
				d[i][j] = math.Pi / period * sign / math.Tan(arg)
			} else {
				d[i][j] = math.Pi / period * sign / math.Sin(arg)
			}
		}
	}
	return d, nil
}

// HarmonicBalanceOperator builds the derivative operator for an arbitrary
// set of modeled angular frequencies, which must include the zero/mean
// mode as its first entry. The nZone sample instances are uniform over
// period.
//
// The operator is composed as D = E * Ddiag * Einv: E maps harmonic
// coefficients (mean, then cos/sin pairs per nonzero frequency) to time
// samples, Ddiag differentiates in the coefficient basis, and Einv is
// obtained by Gauss-Jordan inversion. A singular E (duplicate frequencies,
// too few samples) is a fatal configuration error and surfaces as
// linalg.ErrSingularMatrix.
func HarmonicBalanceOperator(nZone int, period float64, omega []float64) ([][]float64, error) {
	if err := validateHarmonics(nZone, period, omega); err != nil {
		return nil, err
	}

	e := linalg.NewMatrix(nZone, nZone)
	for i := 0; i < nZone; i++ {
		t := period * float64(i) / float64(nZone)
		e[i][0] = 1
		for k := 1; k < len(omega); k++ {
			e[i][2*k-1] = math.Cos(omega[k] * t)
			e[i][2*k] = math.Sin(omega[k] * t)
		}
	}

	eInv, err := linalg.Invert(e)
	if err != nil {
		return nil, fmt.Errorf("harmonic-balance transform matrix: %w", err)
	}

	// Derivative in the coefficient basis: the mean mode has an all-zero
	// row; each nonzero harmonic contributes the 2x2 block
	// [a, b] -> [omega*b, -omega*a].
	dDiag := linalg.NewMatrix(nZone, nZone)
	for k := 1; k < len(omega); k++ {
		dDiag[2*k-1][2*k] = omega[k]
		dDiag[2*k][2*k-1] = -omega[k]
	}

	tmp, err := linalg.MatMul(e, dDiag)
	if err != nil {
		return nil, err
	}
	return linalg.MatMul(tmp, eInv)
}

func validateHarmonics(nZone int, period float64, omega []float64) error {
	if period <= 0 {
		return fmt.Errorf("%w: period must be positive, got %g", zone.ErrConfigInconsistency, period)
	}
	if len(omega) == 0 {
		return fmt.Errorf("%w: no harmonic frequencies supplied", zone.ErrConfigInconsistency)
	}
	if omega[0] != 0 {
		return fmt.Errorf("%w: first harmonic frequency must be the zero mode, got %g", zone.ErrConfigInconsistency, omega[0])
	}
	if want := 2*len(omega) - 1; nZone != want {
		return fmt.Errorf("%w: %d harmonics need %d zone instances, got %d",
			zone.ErrConfigInconsistency, len(omega), want, nZone)
	}
	return nil
}
