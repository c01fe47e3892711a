package window

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/mat"

	"github.com/physiopy/phys2denoise/metrics/common"
)

// Rescale names the rescaling applied to the [raw, convolved] pair after
// convolution. Rescaling always happens after the convolution; the two
// steps do not commute numerically.
type Rescale string

const (
	// RescaleNone leaves both columns untouched
	RescaleNone Rescale = "none"

	// RescaleMinMax linearly remaps the convolved column's min/max onto the
	// raw column's min/max
	RescaleMinMax Rescale = "rescale"

	// RescaleZscore z-scores both columns independently
	RescaleZscore Rescale = "zscore"

	// RescaleDemean demeans both columns
	RescaleDemean Rescale = "demean"

	// RescaleDemeanMinMax demeans both columns, then remaps the convolved
	// column onto the raw input's original min/max
	RescaleDemeanMinMax Rescale = "demean_rescale"
)

// ConvolveOptions tunes ConvolveAndRescale.
type ConvolveOptions struct {
	// Pad keeps the full convolution length instead of truncating to the
	// input length, padding the raw column with its mean.
	Pad bool `json:"pad"`
}

// fftThreshold is the direct-convolution cost above which the FFT path
// takes over.
const fftThreshold = 1 << 22

// ConvolveAndRescale demeans raw, convolves it with kernel (full
// convolution, truncated back to the input length unless opts.Pad), stacks
// [raw, convolved] as columns, and applies the requested rescaling.
func ConvolveAndRescale(raw, kernel []float64, rescale Rescale, opts ConvolveOptions) (*mat.Dense, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("raw array must not be empty")
	}
	if len(kernel) == 0 {
		return nil, fmt.Errorf("kernel must not be empty")
	}
	switch rescale {
	case RescaleNone, RescaleMinMax, RescaleZscore, RescaleDemean, RescaleDemeanMinMax:
	default:
		return nil, fmt.Errorf("rescale mode %q is not supported", rescale)
	}

	conv := Convolve(common.Demean(raw), kernel)

	n := len(raw)
	rows := n
	rawCol := raw
	convCol := conv[:n]
	if opts.Pad {
		rows = len(conv)
		mean := common.Mean(raw)
		padded := make([]float64, rows)
		copy(padded, raw)
		for i := n; i < rows; i++ {
			padded[i] = mean
		}
		rawCol = padded
		convCol = conv
	}

	rawOut := make([]float64, rows)
	copy(rawOut, rawCol)
	convOut := make([]float64, rows)
	copy(convOut, convCol)

	switch rescale {
	case RescaleMinMax:
		convOut = common.Rescale(convOut, common.Min(raw), common.Max(raw))
	case RescaleDemeanMinMax:
		rawOut = common.Demean(rawOut)
		convOut = common.Rescale(common.Demean(convOut), common.Min(raw), common.Max(raw))
	case RescaleZscore:
		rawOut = common.Zscore(rawOut)
		convOut = common.Zscore(convOut)
	case RescaleDemean:
		rawOut = common.Demean(rawOut)
		convOut = common.Demean(convOut)
	}

	out := mat.NewDense(rows, 2, nil)
	out.SetCol(0, rawOut)
	out.SetCol(1, convOut)
	return out, nil
}

// Convolve computes the full linear convolution (length n+m-1). Small
// problems run the quadratic loop for exactness; large ones go through the
// FFT to stay usable on recording-length signals.
func Convolve(a, b []float64) []float64 {
	if len(a) == 0 || len(b) == 0 {
		return []float64{}
	}
	if len(a)*len(b) > fftThreshold {
		return convolveFFT(a, b)
	}
	return convolveDirect(a, b)
}

func convolveDirect(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

func convolveFFT(a, b []float64) []float64 {
	size := len(a) + len(b) - 1

	pa := make([]float64, size)
	copy(pa, a)
	pb := make([]float64, size)
	copy(pb, b)

	fa := fft.FFTReal(pa)
	fb := fft.FFTReal(pb)
	for i := range fa {
		fa[i] *= fb[i]
	}

	inv := fft.IFFT(fa)
	out := make([]float64, size)
	for i, v := range inv {
		out[i] = real(v)
	}
	return out
}
