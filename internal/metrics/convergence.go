// Package metrics derives summary figures from coupling residual
// histories.
package metrics

import "math"

// ReductionRate returns the geometric-mean per-iteration residual
// reduction factor of a BGS history. Values below 1 mean the coupling
// contracts; NaN when the history is too short or touches zero.
func ReductionRate(history []float64) float64 {
	if len(history) < 2 {
		return math.NaN()
	}
	logSum := 0.0
	count := 0
	for i := 1; i < len(history); i++ {
		prev, cur := history[i-1], history[i]
		if prev <= 0 || cur <= 0 {
			continue
		}
		logSum += math.Log(cur / prev)
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return math.Exp(logSum / float64(count))
}

// OrdersReduced returns how many orders of magnitude the residual dropped
// from the first to the last history entry.
func OrdersReduced(history []float64) float64 {
	if len(history) < 2 || history[0] <= 0 || history[len(history)-1] <= 0 {
		return 0
	}
	return math.Log10(history[0] / history[len(history)-1])
}
