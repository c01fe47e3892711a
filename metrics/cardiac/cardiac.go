// Package cardiac computes denoising regressors from cardiac (pulse or ECG)
// recordings and their detected peaks: windowed heart-beat interval and
// heart-rate measures convolved with the cardiac response function, and the
// cardiac phase used by RETROICOR.
//
// With a PPG-recorded signal it is more accurate to speak of pulse rate
// (variability) than heart rate; see Pinheiro et al., EMBC 2016, for the
// differences between the two measures.
package cardiac

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/physiopy/phys2denoise/logging"
	"github.com/physiopy/phys2denoise/metrics/common"
	"github.com/physiopy/phys2denoise/metrics/responses"
	"github.com/physiopy/phys2denoise/metrics/window"
)

// Options parameterizes the windowed cardiac metrics.
type Options struct {
	// Window is the sliding window size, in seconds. Default 6.
	Window float64 `json:"window"`

	// CentralMeasure summarizes the inter-peak values inside a window:
	// "mean"/"average"/"avg", "median"/"mdn", or "stdev"/"std".
	// Default "mean". HeartRate and HeartRateVariability override it
	// with the standard deviation.
	CentralMeasure string `json:"central_measure"`

	// Logger, when set, receives a debug report of the resolved
	// parameters for each call.
	Logger logging.Logger `json:"-"`
}

// DefaultOptions returns the standard 6 s mean-summarized window.
func DefaultOptions() Options {
	return Options{Window: 6, CentralMeasure: "mean"}
}

// HeartBeatInterval computes the central measure of inter-peak intervals
// (seconds) in a sliding window, then convolves it with the CRF. Columns of
// the result are [raw, convolved], both at the signal length. The convolved
// column should be paired with the inverse CRF downstream; see Chen et al.,
// NeuroImage 213, 2020.
func HeartBeatInterval(card []float64, peaks []int, sampleRate float64, opts Options) (*mat.Dense, error) {
	return cardiacMetric("heart_beat_interval", card, peaks, sampleRate, false, false, opts)
}

// HeartRate computes the standard deviation of the instantaneous rate
// (1/interval, Hz) in a sliding window, convolved with the CRF. The operator
// is fixed to the standard deviation no matter which central measure the
// options request; the requested value is still validated. See Chang,
// Cunningham & Glover, NeuroImage 44, 2009.
func HeartRate(card []float64, peaks []int, sampleRate float64, opts Options) (*mat.Dense, error) {
	return cardiacMetric("heart_rate", card, peaks, sampleRate, true, true, opts)
}

// HeartRateVariability is the same transform as HeartRate. It stays a
// separate entry point because metric selection downstream goes by name.
func HeartRateVariability(card []float64, peaks []int, sampleRate float64, opts Options) (*mat.Dense, error) {
	return cardiacMetric("heart_rate_variability", card, peaks, sampleRate, true, true, opts)
}

// cardiacMetric is the shared machinery: per sample, summarize the inter-peak
// intervals (or their inverses) whose peaks fall inside the centered window,
// then convolve with the CRF and min/max-rescale.
func cardiacMetric(name string, card []float64, peaks []int, sampleRate float64, rate, forceStd bool, opts Options) (*mat.Dense, error) {
	if err := common.ValidatePositive("sample_rate", sampleRate); err != nil {
		return nil, err
	}
	if err := common.ValidatePositive("window", opts.Window); err != nil {
		return nil, err
	}
	if err := common.ValidateMarkers("peaks", peaks, len(card)); err != nil {
		return nil, err
	}

	measure, err := common.ParseCentralMeasure(opts.CentralMeasure)
	if err != nil {
		return nil, err
	}
	if forceStd {
		measure = common.CentralStdDev
	}

	halfWindow := int(math.Round(opts.Window * sampleRate / 2))
	if halfWindow == 0 {
		halfWindow = 1
	}

	logging.Or(opts.Logger).Debug("computing cardiac regressor", logging.Fields{
		"metric":          name,
		"sample_rate":     sampleRate,
		"window":          opts.Window,
		"central_measure": measure.String(),
		"n_samples":       len(card),
		"n_peaks":         len(peaks),
	})

	// Window bounds per sample, with the same truncated edges as every
	// other sliding metric
	idx := make([]float64, len(card))
	for i := range idx {
		idx[i] = float64(i)
	}
	idxMin, err := window.ApplyStat(idx, window.StatMin, halfWindow, true)
	if err != nil {
		return nil, err
	}
	idxMax, err := window.ApplyStat(idx, window.StatMax, halfWindow, true)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(card))
	scratch := make([]float64, 0, len(peaks))
	for i := range card {
		lo := int(idxMin[i])
		hi := int(idxMax[i])

		// Peaks inside [lo, hi]
		first := sort.SearchInts(peaks, lo)
		last := sort.SearchInts(peaks, hi+1)

		scratch = scratch[:0]
		for p := first + 1; p < last; p++ {
			interval := float64(peaks[p]-peaks[p-1]) / sampleRate
			if rate {
				interval = 1 / interval
			}
			scratch = append(scratch, interval)
		}

		if len(scratch) == 0 {
			values[i] = 0.0
			continue
		}
		v := measure.Apply(scratch)
		if math.IsNaN(v) {
			v = 0.0
		}
		values[i] = v
	}

	kernel, err := responses.CRF(sampleRate, responses.DefaultCRFOptions())
	if err != nil {
		return nil, err
	}
	return window.ConvolveAndRescale(values, kernel, window.RescaleMinMax, window.ConvolveOptions{})
}
