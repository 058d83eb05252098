package metrics

import (
	"math"
	"testing"
)

func TestReductionRateGeometricHistory(t *testing.T) {
	history := []float64{1, 0.25, 0.0625, 0.015625}
	rate := ReductionRate(history)
	if math.Abs(rate-0.25) > 1e-12 {
		t.Errorf("reduction rate %.6f, want 0.25", rate)
	}
}

func TestReductionRateDegenerate(t *testing.T) {
	if !math.IsNaN(ReductionRate(nil)) {
		t.Error("expected NaN for empty history")
	}
	if !math.IsNaN(ReductionRate([]float64{1})) {
		t.Error("expected NaN for single entry")
	}
	if !math.IsNaN(ReductionRate([]float64{0, 0})) {
		t.Error("expected NaN for all-zero history")
	}
}

func TestOrdersReduced(t *testing.T) {
	got := OrdersReduced([]float64{1, 1e-6})
	if math.Abs(got-6) > 1e-12 {
		t.Errorf("orders reduced %.3f, want 6", got)
	}
	if OrdersReduced([]float64{1}) != 0 {
		t.Error("expected 0 for single entry")
	}
}
