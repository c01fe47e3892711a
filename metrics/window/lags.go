package window

import (
	"gonum.org/v1/gonum/mat"
)

// ApplyLags shifts the series by each lag (in samples) and stacks the
// results as columns, in the order the lags were given. A positive lag
// shifts right and zero-fills the start; a negative lag shifts left and
// zero-fills the end; lag 0 copies the series unchanged.
func ApplyLags(series []float64, lags []int) *mat.Dense {
	n := len(series)
	out := mat.NewDense(n, len(lags), nil)

	for col, lag := range lags {
		shifted := make([]float64, n)
		switch {
		case lag < 0:
			if -lag < n {
				copy(shifted, series[-lag:])
			}
		case lag > 0:
			if lag < n {
				copy(shifted[lag:], series[:n-lag])
			}
		default:
			copy(shifted, series)
		}
		out.SetCol(col, shifted)
	}
	return out
}
