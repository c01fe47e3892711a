package respiratory

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/physiopy/phys2denoise/logging"
	"github.com/physiopy/phys2denoise/metrics/common"
)

// RVTOptions parameterizes VolumePerTime.
type RVTOptions struct {
	// Lags are the temporal shifts applied to the metric, in seconds.
	// Default 0, 4, 8, 12, after Birn et al., NeuroImage 31, 2006.
	Lags []float64 `json:"lags"`

	Logger logging.Logger `json:"-"`
}

// DefaultRVTOptions returns the standard 0/4/8/12 s lag set.
func DefaultRVTOptions() RVTOptions {
	return RVTOptions{Lags: []float64{0, 4, 8, 12}}
}

// VolumePerTime computes respiratory volume per time (RVT): peak and trough
// amplitudes and inter-peak periods are linearly interpolated onto every
// sample time (extrapolated beyond the edges), and the metric is
// (peak - trough) / period. One column per requested lag; each lagged copy
// shifts the series right and pads the start with its first value. Shape is
// (len(resp), len(lags)).
func VolumePerTime(resp []float64, peaks, troughs []int, sampleRate float64, opts RVTOptions) (*mat.Dense, error) {
	if err := common.ValidatePositive("sample_rate", sampleRate); err != nil {
		return nil, err
	}
	if err := common.ValidateMarkers("peaks", peaks, len(resp)); err != nil {
		return nil, err
	}
	if err := common.ValidateMarkers("troughs", troughs, len(resp)); err != nil {
		return nil, err
	}
	if len(peaks) < 3 {
		return nil, fmt.Errorf("peaks must contain at least 3 entries to interpolate periods, got %d", len(peaks))
	}
	if len(troughs) < 2 {
		return nil, fmt.Errorf("troughs must contain at least 2 entries, got %d", len(troughs))
	}
	if len(opts.Lags) == 0 {
		return nil, fmt.Errorf("lags must not be empty")
	}
	for i, lag := range opts.Lags {
		if lag < 0 {
			return nil, fmt.Errorf("lags[%d] = %g must be non-negative", i, lag)
		}
	}

	logging.Or(opts.Logger).Debug("computing respiratory volume-per-time regressor", logging.Fields{
		"metric":      "respiratory_variance_time",
		"sample_rate": sampleRate,
		"lags":        opts.Lags,
		"n_samples":   len(resp),
	})

	n := len(resp)
	time := make([]float64, n)
	for i := range time {
		time[i] = float64(i) / sampleRate
	}

	peakTimes := make([]float64, len(peaks))
	peakVals := make([]float64, len(peaks))
	for i, p := range peaks {
		peakTimes[i] = time[p]
		peakVals[i] = resp[p]
	}
	troughTimes := make([]float64, len(troughs))
	troughVals := make([]float64, len(troughs))
	for i, tr := range troughs {
		troughTimes[i] = time[tr]
		troughVals[i] = resp[tr]
	}

	// Breathing periods, placed at mid-peak times
	midPeakTimes := make([]float64, len(peaks)-1)
	periods := make([]float64, len(peaks)-1)
	for i := 0; i < len(peaks)-1; i++ {
		midPeakTimes[i] = (peakTimes[i] + peakTimes[i+1]) / 2
		periods[i] = peakTimes[i+1] - peakTimes[i]
	}

	peakInterp := common.Interp(peakTimes, peakVals, time)
	troughInterp := common.Interp(troughTimes, troughVals, time)
	periodInterp := common.Interp(midPeakTimes, periods, time)

	rvt := make([]float64, n)
	for i := range rvt {
		rvt[i] = (peakInterp[i] - troughInterp[i]) / periodInterp[i]
	}

	out := mat.NewDense(n, len(opts.Lags), nil)
	column := make([]float64, n)
	for col, lag := range opts.Lags {
		shift := int(math.Round(lag * sampleRate))
		if shift > n-1 {
			shift = n - 1
		}

		for i := 0; i < shift; i++ {
			column[i] = rvt[0]
		}
		copy(column[shift:], rvt[:n-shift])
		out.SetCol(col, column)
	}
	return out, nil
}
