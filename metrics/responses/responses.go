// Package responses provides the closed-form cardiac and respiratory
// response functions used as convolution kernels by the metric packages.
package responses

import (
	"fmt"
	"math"

	"github.com/physiopy/phys2denoise/metrics/common"
)

// Options parameterizes kernel generation.
type Options struct {
	// TimeLength is the kernel length in seconds.
	TimeLength float64 `json:"time_length"`

	// Onset shifts the response onset, in seconds.
	Onset float64 `json:"onset"`

	// Inverse negates the kernel. Only meaningful for the CRF, where the
	// negated kernel approximates the iCRF.
	Inverse bool `json:"inverse"`
}

// DefaultCRFOptions returns the standard 32 s cardiac kernel parameters.
func DefaultCRFOptions() Options {
	return Options{TimeLength: 32}
}

// DefaultRRFOptions returns the standard 50 s respiratory kernel parameters.
func DefaultRRFOptions() Options {
	return Options{TimeLength: 50}
}

// CRF samples the cardiac response function of Chang, Cunningham & Glover
// (NeuroImage 44, 2009, Appendix A) at sampleRate Hz and peak-normalizes it
// so max |value| is 1. With opts.Inverse the result is negated (approximate
// iCRF).
func CRF(sampleRate float64, opts Options) ([]float64, error) {
	kernel, err := sampleKernel(sampleRate, opts, func(t float64) float64 {
		return 0.6*math.Pow(t, 2.7)*math.Exp(-t/1.6) -
			16.0*(1.0/math.Sqrt(2.0*math.Pi*9.0))*math.Exp(-0.5*(t-12.0)*(t-12.0)/9.0)
	})
	if err != nil {
		return nil, err
	}
	if opts.Inverse {
		for i := range kernel {
			kernel[i] = -kernel[i]
		}
	}
	return kernel, nil
}

// ICRF returns the additive inverse of the CRF.
func ICRF(sampleRate float64, opts Options) ([]float64, error) {
	opts.Inverse = true
	return CRF(sampleRate, opts)
}

// RRF samples the respiratory response function of Chang & Glover
// (NeuroImage 47, 2009, Appendix A), peak-normalized like CRF.
func RRF(sampleRate float64, opts Options) ([]float64, error) {
	if opts.Inverse {
		return nil, fmt.Errorf("inverse is not defined for the respiratory response function")
	}
	return sampleKernel(sampleRate, opts, func(t float64) float64 {
		return 0.6*math.Pow(t, 2.1)*math.Exp(-t/1.6) -
			0.0023*math.Pow(t, 3.54)*math.Exp(-t/4.25)
	})
}

func sampleKernel(sampleRate float64, opts Options, rf func(float64) float64) ([]float64, error) {
	if err := common.ValidatePositive("sample_rate", sampleRate); err != nil {
		return nil, err
	}
	if err := common.ValidatePositive("time_length", opts.TimeLength); err != nil {
		return nil, err
	}

	n := int(math.Round(opts.TimeLength * sampleRate))
	if n == 0 {
		return nil, fmt.Errorf("time_length %g s at %g Hz yields an empty kernel", opts.TimeLength, sampleRate)
	}

	kernel := make([]float64, n)
	peak := 0.0
	for i := range kernel {
		t := float64(i)/sampleRate - opts.Onset
		// Response functions are causal; samples before the onset stay zero
		if t >= 0 {
			kernel[i] = rf(t)
		}
		if abs := math.Abs(kernel[i]); abs > peak {
			peak = abs
		}
	}

	if peak == 0 {
		return nil, fmt.Errorf("degenerate kernel: all samples are zero (time_length %g, onset %g)",
			opts.TimeLength, opts.Onset)
	}
	for i := range kernel {
		kernel[i] /= peak
	}
	return kernel, nil
}
