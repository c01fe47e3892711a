package common

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical functions shared by the metric packages, built on gonum.
// Deviations are population deviations throughout: physiological regressors
// summarize whole windows, not samples of a larger population.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the population standard deviation
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	if len(data) == 1 {
		return 0.0
	}
	return stat.PopStdDev(data, nil)
}

// Median calculates the midpoint-interpolated median
func Median(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2.0
	}
	return sorted[mid]
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}

	sumSquares := 0.0
	for _, val := range data {
		sumSquares += val * val
	}

	return math.Sqrt(sumSquares / float64(len(data)))
}

// Min returns the smallest value in the slice
func Min(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return floats.Min(data)
}

// Max returns the largest value in the slice
func Max(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return floats.Max(data)
}

// Demean subtracts the mean, returning a new slice
func Demean(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	mean := Mean(data)
	for i, val := range data {
		out[i] = val - mean
	}
	return out
}

// Zscore normalizes data to zero mean and unit population variance.
// Constant data comes back demeaned (all zeros) rather than NaN.
func Zscore(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}

	mean := Mean(data)
	std := StdDev(data)

	if std < 1e-10 {
		for i, val := range data {
			out[i] = val - mean
		}
		return out
	}

	for i, val := range data {
		out[i] = (val - mean) / std
	}
	return out
}

// Rescale linearly remaps data onto [lo, hi] based on its own min/max.
// Constant data maps to lo.
func Rescale(data []float64, lo, hi float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}

	min := floats.Min(data)
	max := floats.Max(data)

	if math.Abs(max-min) < 1e-300 {
		for i := range out {
			out[i] = lo
		}
		return out
	}

	for i, val := range data {
		out[i] = (val-min)/(max-min)*(hi-lo) + lo
	}
	return out
}

// Interp evaluates the piecewise-linear function through (x, y) at every
// point of xi, extrapolating from the first and last segments beyond the
// edges. x must be strictly increasing and len(x) == len(y) >= 2.
func Interp(x, y, xi []float64) []float64 {
	out := make([]float64, len(xi))
	if len(x) != len(y) || len(x) < 2 {
		return out
	}

	for k, xq := range xi {
		// Locate the segment; edge queries extrapolate from the end segments
		j := sort.SearchFloat64s(x, xq)
		if j <= 0 {
			j = 1
		} else if j >= len(x) {
			j = len(x) - 1
		}

		t := (xq - x[j-1]) / (x[j] - x[j-1])
		out[k] = y[j-1] + t*(y[j]-y[j-1])
	}
	return out
}
