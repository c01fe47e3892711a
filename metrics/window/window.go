// Package window implements the sliding-window primitives shared by the
// cardiac and respiratory metrics: centered window reduction with truncated
// edges, lag expansion, and kernel convolution with rescaling.
package window

import (
	"fmt"
	"math"

	"github.com/physiopy/phys2denoise/metrics/common"
)

// Reducer collapses one window of samples to a single value.
type Reducer func([]float64) float64

// Stat selects a reduction with a dedicated implementation in ApplyStat.
type Stat int

const (
	StatMean Stat = iota
	StatStd
	StatRMS
	StatMedian
	StatMin
	StatMax
)

func (s Stat) String() string {
	switch s {
	case StatMean:
		return "mean"
	case StatStd:
		return "std"
	case StatRMS:
		return "rms"
	case StatMedian:
		return "median"
	case StatMin:
		return "min"
	case StatMax:
		return "max"
	default:
		return "unknown"
	}
}

// span is a half-open [start, end) view into the input series.
type span struct {
	start, end int
}

// spans enumerates the window bounds for a centered window of width
// 2*halfWindow. With incomplete windows the output has exactly one span per
// sample: halfWindow growing left-truncated windows, the complete windows,
// then halfWindow-1 shrinking right-truncated windows. The very last partial
// window is skipped so the output length matches the input length.
func spans(n, halfWindow int, includeIncomplete bool) []span {
	width := 2 * halfWindow
	out := make([]span, 0, n)

	if includeIncomplete {
		for j := 0; j < halfWindow; j++ {
			out = append(out, span{0, j + halfWindow})
		}
	}
	for k := 0; k+width <= n; k++ {
		out = append(out, span{k, k + width})
	}
	if includeIncomplete {
		for i := -halfWindow + 1; i < 0; i++ {
			out = append(out, span{n + i - halfWindow, n})
		}
	}
	return out
}

func checkWindow(n, halfWindow int) error {
	if halfWindow <= 0 {
		return fmt.Errorf("half_window must be positive, got %d", halfWindow)
	}
	if 2*halfWindow > n {
		return fmt.Errorf("window of %d samples does not fit the signal (length %d)", 2*halfWindow, n)
	}
	return nil
}

// Apply applies reducer over a centered sliding window of width 2*halfWindow
// at every sample. Boundary windows are asymmetrically truncated rather than
// zero-padded, so with includeIncomplete the output has the same length as
// the input. NaN results from degenerate windows are replaced with 0.
func Apply(series []float64, reducer Reducer, halfWindow int, includeIncomplete bool) ([]float64, error) {
	if err := checkWindow(len(series), halfWindow); err != nil {
		return nil, err
	}

	sp := spans(len(series), halfWindow, includeIncomplete)
	out := make([]float64, len(sp))
	for i, s := range sp {
		out[i] = reducer(series[s.start:s.end])
	}
	zeroNaNs(out)
	return out, nil
}

// ApplyStat is Apply for the standard reducers. Mean, std, and rms windows
// run in O(n) via prefix sums, which keeps production-size recordings
// (10^5 samples at hundreds of Hz) cheap; the order-statistic reducers fall
// back to the generic path.
func ApplyStat(series []float64, stat Stat, halfWindow int, includeIncomplete bool) ([]float64, error) {
	switch stat {
	case StatMean, StatStd, StatRMS:
		return applyMoments(series, stat, halfWindow, includeIncomplete)
	case StatMedian:
		return Apply(series, common.Median, halfWindow, includeIncomplete)
	case StatMin:
		return Apply(series, common.Min, halfWindow, includeIncomplete)
	case StatMax:
		return Apply(series, common.Max, halfWindow, includeIncomplete)
	default:
		return nil, fmt.Errorf("stat %d is not a supported sliding-window statistic", stat)
	}
}

// applyMoments computes windowed mean/std/rms from running sums.
func applyMoments(series []float64, stat Stat, halfWindow int, includeIncomplete bool) ([]float64, error) {
	if err := checkWindow(len(series), halfWindow); err != nil {
		return nil, err
	}

	cum := make([]float64, len(series)+1)
	cumSq := make([]float64, len(series)+1)
	for i, v := range series {
		cum[i+1] = cum[i] + v
		cumSq[i+1] = cumSq[i] + v*v
	}

	sp := spans(len(series), halfWindow, includeIncomplete)
	out := make([]float64, len(sp))
	for i, s := range sp {
		count := float64(s.end - s.start)
		mean := (cum[s.end] - cum[s.start]) / count
		meanSq := (cumSq[s.end] - cumSq[s.start]) / count

		switch stat {
		case StatMean:
			out[i] = mean
		case StatRMS:
			out[i] = math.Sqrt(meanSq)
		case StatStd:
			// Population variance; clamp tiny negative rounding residue
			variance := meanSq - mean*mean
			if variance < 0 {
				variance = 0
			}
			out[i] = math.Sqrt(variance)
		}
	}
	zeroNaNs(out)
	return out, nil
}

func zeroNaNs(data []float64) {
	for i, v := range data {
		if math.IsNaN(v) {
			data[i] = 0.0
		}
	}
}
