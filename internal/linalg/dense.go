// Package linalg provides the small dense kernel the spectral operator
// construction needs: matrix-matrix products and Gauss-Jordan inversion.
// It is deliberately self-contained; the matrices involved are nZone-sized
// (a handful of rows), far below the point where an external BLAS pays off.
package linalg

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingularMatrix indicates Gauss-Jordan elimination found no usable
// pivot. The resulting operator cannot be trusted; callers treat this as
// fatal.
var ErrSingularMatrix = errors.New("linalg: singular matrix")

// pivotEps is the relative threshold below which a pivot counts as zero.
const pivotEps = 1e-13

// NewMatrix allocates a zeroed rows x cols matrix with one backing slice.
func NewMatrix(rows, cols int) [][]float64 {
	backing := make([]float64, rows*cols)
	m := make([][]float64, rows)
	for i := range m {
		m[i] = backing[i*cols : (i+1)*cols]
	}
	return m
}

// Clone returns a deep copy of m.
func Clone(m [][]float64) [][]float64 {
	c := NewMatrix(len(m), len(m[0]))
	for i := range m {
		copy(c[i], m[i])
	}
	return c
}

// MatMul computes the dense product a*b where a is n x n and b is n x m.
// Inputs are not modified and the result never aliases them.
func MatMul(a, b [][]float64) ([][]float64, error) {
	n := len(a)
	if n == 0 {
		return nil, fmt.Errorf("linalg: empty left operand")
	}
	for i := range a {
		if len(a[i]) != n {
			return nil, fmt.Errorf("linalg: left operand is not square (row %d has %d cols, want %d)", i, len(a[i]), n)
		}
	}
	if len(b) != n {
		return nil, fmt.Errorf("linalg: dimension mismatch: %d x %d times %d-row", n, n, len(b))
	}
	m := len(b[0])
	for i := range b {
		if len(b[i]) != m {
			return nil, fmt.Errorf("linalg: ragged right operand at row %d", i)
		}
	}

	out := NewMatrix(n, m)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			aik := a[i][k]
			if aik == 0 {
				continue
			}
			for j := 0; j < m; j++ {
				out[i][j] += aik * b[k][j]
			}
		}
	}
	return out, nil
}

// Invert returns the inverse of the square matrix a using Gauss-Jordan
// elimination with partial (row-max) pivoting. The input is left
// unmodified. A pivot column whose best entry is numerically zero relative
// to the matrix scale yields ErrSingularMatrix.
func Invert(a [][]float64) ([][]float64, error) {
	n := len(a)
	if n == 0 {
		return nil, fmt.Errorf("linalg: empty matrix")
	}
	for i := range a {
		if len(a[i]) != n {
			return nil, fmt.Errorf("linalg: matrix is not square (row %d has %d cols, want %d)", i, len(a[i]), n)
		}
	}

	work := Clone(a)
	inv := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		inv[i][i] = 1
	}

	scale := 0.0
	for i := range work {
		for _, v := range work[i] {
			if av := math.Abs(v); av > scale {
				scale = av
			}
		}
	}
	if scale == 0 {
		return nil, fmt.Errorf("%w: all entries zero", ErrSingularMatrix)
	}

	for col := 0; col < n; col++ {
		// Partial pivoting: bring the largest remaining entry of the
		// column onto the diagonal.
		pivotRow := col
		pivotAbs := math.Abs(work[col][col])
		for r := col + 1; r < n; r++ {
			if av := math.Abs(work[r][col]); av > pivotAbs {
				pivotRow, pivotAbs = r, av
			}
		}
		if pivotAbs <= pivotEps*scale {
			return nil, fmt.Errorf("%w: no usable pivot in column %d", ErrSingularMatrix, col)
		}
		if pivotRow != col {
			work[col], work[pivotRow] = work[pivotRow], work[col]
			inv[col], inv[pivotRow] = inv[pivotRow], inv[col]
		}

		pivot := work[col][col]
		for j := 0; j < n; j++ {
			work[col][j] /= pivot
			inv[col][j] /= pivot
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := work[r][col]
			if factor == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				work[r][j] -= factor * work[col][j]
				inv[r][j] -= factor * inv[col][j]
			}
		}
	}

	return inv, nil
}

// Identity returns the n x n identity matrix.
func Identity(n int) [][]float64 {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m[i][i] = 1
	}
	return m
}
