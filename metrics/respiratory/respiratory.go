// Package respiratory computes denoising regressors from respiratory belt
// recordings: envelope-based pattern variability, windowed respiratory
// variance convolved with the respiratory response function,
// respiratory-volume-per-time, and the respiratory phase used by RETROICOR.
package respiratory

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/physiopy/phys2denoise/logging"
	"github.com/physiopy/phys2denoise/metrics/common"
	"github.com/physiopy/phys2denoise/metrics/responses"
	"github.com/physiopy/phys2denoise/metrics/window"
)

// EnvOptions parameterizes Env.
type EnvOptions struct {
	// Window is the rolling window size in seconds; its integer value is
	// also the envelope block size in samples inside each window, matching
	// the reference behavior. Must round to an even sample count.
	// Default 10.
	Window float64 `json:"window"`

	Logger logging.Logger `json:"-"`
}

// DefaultEnvOptions returns the standard 10 s window.
func DefaultEnvOptions() EnvOptions {
	return EnvOptions{Window: 10}
}

// VarianceOptions parameterizes Variance.
type VarianceOptions struct {
	// Window is the sliding window size, in seconds. Default 6.
	Window float64 `json:"window"`

	Logger logging.Logger `json:"-"`
}

// DefaultVarianceOptions returns the standard 6 s window.
func DefaultVarianceOptions() VarianceOptions {
	return VarianceOptions{Window: 6}
}

// PatternVariability condenses a respiratory segment into a single scalar:
// z-score the signal, take the RMS upper envelope over blocks of
// envelopeWindow samples, and return the standard deviation of that
// envelope. See Power et al., PNAS 115, 2018.
func PatternVariability(resp []float64, envelopeWindow int) (float64, error) {
	env, err := window.RMSEnvelope(common.Zscore(resp), envelopeWindow)
	if err != nil {
		return 0, err
	}
	return common.StdDev(env), nil
}

// Env applies PatternVariability in a centered rolling window across the
// whole recording, one value per sample. Edge-effect NaNs are zeroed.
func Env(resp []float64, sampleRate float64, opts EnvOptions) ([]float64, error) {
	if err := common.ValidatePositive("sample_rate", sampleRate); err != nil {
		return nil, err
	}
	if err := common.ValidatePositive("window", opts.Window); err != nil {
		return nil, err
	}

	envelopeWindow := int(opts.Window)
	if envelopeWindow <= 0 || envelopeWindow%2 != 0 {
		return nil, fmt.Errorf("window must round to an even positive sample count, got %g", opts.Window)
	}
	halfWindow := int(math.Round(opts.Window * sampleRate / 2))

	logging.Or(opts.Logger).Debug("computing respiratory envelope regressor", logging.Fields{
		"metric":      "env",
		"sample_rate": sampleRate,
		"window":      opts.Window,
		"n_samples":   len(resp),
	})

	return window.Apply(resp, func(segment []float64) float64 {
		value, err := PatternVariability(segment, envelopeWindow)
		if err != nil {
			// Degenerate segment; Apply zeroes NaN results
			return math.NaN()
		}
		return value
	}, halfWindow, true)
}

// Variance computes the sliding-window standard deviation of the
// respiratory signal, convolves it with the RRF, and z-scores both columns.
// The result is [raw, convolved] at the signal length. See Chang & Glover,
// NeuroImage 47, 2009.
func Variance(resp []float64, sampleRate float64, opts VarianceOptions) (*mat.Dense, error) {
	if err := common.ValidatePositive("sample_rate", sampleRate); err != nil {
		return nil, err
	}
	if err := common.ValidatePositive("window", opts.Window); err != nil {
		return nil, err
	}

	halfWindow := int(math.Round(opts.Window * sampleRate / 2))
	if halfWindow == 0 {
		halfWindow = 1
	}

	logging.Or(opts.Logger).Debug("computing respiratory variance regressor", logging.Fields{
		"metric":      "respiratory_variance",
		"sample_rate": sampleRate,
		"window":      opts.Window,
		"n_samples":   len(resp),
	})

	raw, err := window.ApplyStat(resp, window.StatStd, halfWindow, true)
	if err != nil {
		return nil, err
	}

	kernel, err := responses.RRF(sampleRate, responses.DefaultRRFOptions())
	if err != nil {
		return nil, err
	}
	return window.ConvolveAndRescale(raw, kernel, window.RescaleZscore, window.ConvolveOptions{})
}
