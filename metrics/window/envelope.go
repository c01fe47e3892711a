package window

import (
	"fmt"
	"math"

	"github.com/physiopy/phys2denoise/metrics/common"
)

// MirrorPad pads both sides of arr with buffer flipped samples from arr
// itself. A buffer longer than the array is clamped to the array length.
func MirrorPad(arr []float64, buffer int) []float64 {
	n := len(arr)
	if buffer > n {
		buffer = n
	}
	if buffer < 0 {
		buffer = 0
	}

	mirror := make([]float64, n)
	for i, v := range arr {
		mirror[n-1-i] = v
	}

	out := make([]float64, 0, n+2*buffer)
	out = append(out, mirror[n-buffer:]...)
	out = append(out, arr...)
	out = append(out, mirror[:buffer]...)
	return out
}

// RMSEnvelope computes the RMS upper envelope of arr over blocks of window
// samples, the way MATLAB's envelope(x, window, "rms") does: demean,
// mirror-pad by half a window, take the RMS of each window, then restore the
// mean. The window must be even. A constant input comes back unchanged.
func RMSEnvelope(arr []float64, window int) ([]float64, error) {
	if len(arr) == 0 {
		return nil, fmt.Errorf("input array must not be empty")
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}
	if window%2 != 0 {
		return nil, fmt.Errorf("window must be even, got %d", window)
	}

	n := len(arr)
	buf := window / 2

	mean := common.Mean(arr)
	demeaned := make([]float64, n)
	for i, v := range arr {
		demeaned[i] = v - mean
	}
	padded := MirrorPad(demeaned, buf)

	env := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i + buf
		stop := start + window
		if stop > len(padded) {
			stop = len(padded)
		}

		sumSq := 0.0
		for _, v := range padded[start:stop] {
			sumSq += v * v
		}
		env[i] = math.Sqrt(sumSq/float64(stop-start)) + mean
	}
	return env, nil
}
