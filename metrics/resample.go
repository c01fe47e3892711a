// Package metrics ties the regressor computation packages together and
// provides post-processing shared by all of them.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/physiopy/phys2denoise/metrics/common"
)

// ResampleAtTR resamples a regressor matrix from its native sampling rate
// onto the imaging grid: each column is linearly interpolated from the
// original time axis onto round(rows/(sampleRate*tr)) evenly spaced points
// over the same span. When nVolumes > 0 the result is truncated or
// edge-padded to exactly nVolumes rows. The input is never modified.
func ResampleAtTR(metric *mat.Dense, sampleRate, tr float64, nVolumes int) (*mat.Dense, error) {
	if metric == nil {
		return nil, fmt.Errorf("metric must not be nil")
	}
	if err := common.ValidatePositive("sample_rate", sampleRate); err != nil {
		return nil, err
	}
	if err := common.ValidatePositive("t_r", tr); err != nil {
		return nil, err
	}

	rows, cols := metric.Dims()
	if rows < 2 {
		return nil, fmt.Errorf("metric must have at least 2 rows, got %d", rows)
	}

	newRows := int(math.Round(float64(rows) / (sampleRate * tr)))
	if newRows < 2 {
		newRows = 2
	}

	span := float64(rows) / sampleRate
	origT := linspace(0, span, rows)
	newT := linspace(0, span, newRows)

	resampled := mat.NewDense(newRows, cols, nil)
	column := make([]float64, rows)
	for c := 0; c < cols; c++ {
		mat.Col(column, c, metric)
		resampled.SetCol(c, common.Interp(origT, column, newT))
	}

	if nVolumes <= 0 || nVolumes == newRows {
		return resampled, nil
	}

	out := mat.NewDense(nVolumes, cols, nil)
	for r := 0; r < nVolumes; r++ {
		// Rows past the end repeat the final resampled row
		src := r
		if src >= newRows {
			src = newRows - 1
		}
		for c := 0; c < cols; c++ {
			out.Set(r, c, resampled.At(src, c))
		}
	}
	return out, nil
}

// ResampleSeriesAtTR is ResampleAtTR for a single-column series.
func ResampleSeriesAtTR(series []float64, sampleRate, tr float64, nVolumes int) ([]float64, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("series must have at least 2 samples, got %d", len(series))
	}

	resampled, err := ResampleAtTR(mat.NewDense(len(series), 1, series), sampleRate, tr, nVolumes)
	if err != nil {
		return nil, err
	}

	rows, _ := resampled.Dims()
	out := make([]float64, rows)
	mat.Col(out, 0, resampled)
	return out, nil
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
