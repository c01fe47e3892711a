package window

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiopy/phys2denoise/metrics/common"
)

func TestApplyTruncatedEdges(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, 6}

	got, err := Apply(series, common.Mean, 2, true)
	require.NoError(t, err)

	// Two left-truncated windows, three complete ones, one right-truncated;
	// the final partial window is skipped so length matches the input
	want := []float64{1.5, 2, 2.5, 3.5, 4.5, 5}
	assert.Empty(t, cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)))
}

func TestApplyCompleteOnly(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, 6}

	got, err := Apply(series, common.Mean, 2, false)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestApplyZeroesNaNs(t *testing.T) {
	series := []float64{1, 2, 3, 4}

	got, err := Apply(series, func([]float64) float64 { return math.NaN() }, 1, true)
	require.NoError(t, err)
	for _, v := range got {
		assert.Equal(t, 0.0, v)
	}
}

func TestApplyValidation(t *testing.T) {
	_, err := Apply([]float64{1, 2, 3}, common.Mean, 0, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "half_window")

	_, err = Apply([]float64{1, 2, 3}, common.Mean, 2, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not fit")
}

func TestApplyStatMatchesGenericPath(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	series := make([]float64, 500)
	for i := range series {
		series[i] = rng.NormFloat64()
	}

	tests := []struct {
		stat    Stat
		reducer Reducer
	}{
		{StatMean, common.Mean},
		{StatStd, common.StdDev},
		{StatRMS, common.RMS},
		{StatMin, common.Min},
		{StatMax, common.Max},
		{StatMedian, common.Median},
	}
	for _, tt := range tests {
		t.Run(tt.stat.String(), func(t *testing.T) {
			fast, err := ApplyStat(series, tt.stat, 25, true)
			require.NoError(t, err)

			slow, err := Apply(series, tt.reducer, 25, true)
			require.NoError(t, err)

			assert.Empty(t, cmp.Diff(slow, fast, cmpopts.EquateApprox(0, 1e-9)))
		})
	}
}

func TestApplyStatUnknown(t *testing.T) {
	_, err := ApplyStat([]float64{1, 2, 3, 4}, Stat(42), 1, true)
	require.Error(t, err)
}

func TestApplyLagsIdentity(t *testing.T) {
	series := []float64{1, 2, 3, 4}

	out := ApplyLags(series, []int{0})
	rows, cols := out.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 1, cols)
	for i, v := range series {
		assert.Equal(t, v, out.At(i, 0))
	}
}

func TestApplyLagsShifts(t *testing.T) {
	series := []float64{1, 2, 3, 4}

	out := ApplyLags(series, []int{2, -1, 5})
	_, cols := out.Dims()
	require.Equal(t, 3, cols)

	// Positive lag shifts right, zero-filling the start
	posWant := []float64{0, 0, 1, 2}
	// Negative lag shifts left, zero-filling the end
	negWant := []float64{2, 3, 4, 0}
	// A lag past the end leaves only zeros
	farWant := []float64{0, 0, 0, 0}

	for i := 0; i < 4; i++ {
		assert.Equal(t, posWant[i], out.At(i, 0))
		assert.Equal(t, negWant[i], out.At(i, 1))
		assert.Equal(t, farWant[i], out.At(i, 2))
	}
}

func TestMirrorPad(t *testing.T) {
	arr := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	got := MirrorPad(arr, 3)
	want := []float64{2, 1, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 9, 8, 7}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestMirrorPadClampsLongBuffer(t *testing.T) {
	arr := []float64{1, 2, 3}

	got := MirrorPad(arr, 250)
	assert.Len(t, got, 9)
	assert.Empty(t, cmp.Diff([]float64{3, 2, 1, 1, 2, 3, 3, 2, 1}, got))
}

func TestRMSEnvelopeConstantInput(t *testing.T) {
	arr := make([]float64, 10)
	for i := range arr {
		arr[i] = 2.0
	}

	env, err := RMSEnvelope(arr, 4)
	require.NoError(t, err)
	require.Len(t, env, 10)
	for _, v := range env {
		assert.InDelta(t, 2.0, v, 1e-12)
	}
}

func TestRMSEnvelopeValidation(t *testing.T) {
	_, err := RMSEnvelope(nil, 4)
	require.Error(t, err)

	_, err = RMSEnvelope([]float64{1, 2, 3}, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "even")

	_, err = RMSEnvelope([]float64{1, 2, 3}, 0)
	require.Error(t, err)
}

func TestConvolveDirect(t *testing.T) {
	got := Convolve([]float64{1, 2, 3}, []float64{1, 1})
	assert.Empty(t, cmp.Diff([]float64{1, 3, 5, 3}, got, cmpopts.EquateApprox(0, 1e-12)))
}

func TestConvolveFFTMatchesDirect(t *testing.T) {
	// Sizes chosen to push Convolve onto the FFT path
	a := make([]float64, 3000)
	b := make([]float64, 2000)
	for i := range a {
		a[i] = math.Sin(0.01 * float64(i))
	}
	for i := range b {
		b[i] = math.Cos(0.02 * float64(i))
	}

	fast := Convolve(a, b)
	slow := convolveDirect(a, b)
	require.Len(t, fast, len(slow))
	for i := range slow {
		assert.InDelta(t, slow[i], fast[i], 1e-6)
	}
}

func TestConvolveAndRescaleZeroSignal(t *testing.T) {
	raw := make([]float64, 50)
	kernel := []float64{1, 0.5, 0.25}

	for _, mode := range []Rescale{RescaleNone, RescaleMinMax, RescaleZscore, RescaleDemean, RescaleDemeanMinMax} {
		t.Run(string(mode), func(t *testing.T) {
			out, err := ConvolveAndRescale(raw, kernel, mode, ConvolveOptions{})
			require.NoError(t, err)

			rows, cols := out.Dims()
			require.Equal(t, 50, rows)
			require.Equal(t, 2, cols)
			for i := 0; i < rows; i++ {
				assert.Equal(t, 0.0, out.At(i, 0))
				assert.Equal(t, 0.0, out.At(i, 1))
			}
		})
	}
}

func TestConvolveAndRescaleMinMax(t *testing.T) {
	raw := []float64{1, 2, 3, 4}

	out, err := ConvolveAndRescale(raw, []float64{1}, RescaleMinMax, ConvolveOptions{})
	require.NoError(t, err)

	// With a unit kernel the demeaned convolution remapped onto the raw
	// min/max reproduces the raw column
	for i := range raw {
		assert.InDelta(t, raw[i], out.At(i, 0), 1e-12)
		assert.InDelta(t, raw[i], out.At(i, 1), 1e-12)
	}
}

func TestConvolveAndRescaleZscore(t *testing.T) {
	raw := []float64{1, 2, 3, 4}

	out, err := ConvolveAndRescale(raw, []float64{1}, RescaleZscore, ConvolveOptions{})
	require.NoError(t, err)

	std := math.Sqrt(1.25)
	want := []float64{-1.5 / std, -0.5 / std, 0.5 / std, 1.5 / std}
	for i := range want {
		assert.InDelta(t, want[i], out.At(i, 0), 1e-12)
		assert.InDelta(t, want[i], out.At(i, 1), 1e-12)
	}
}

func TestConvolveAndRescalePad(t *testing.T) {
	raw := []float64{1, 2, 3, 4}
	kernel := []float64{1, 1, 1}

	out, err := ConvolveAndRescale(raw, kernel, RescaleNone, ConvolveOptions{Pad: true})
	require.NoError(t, err)

	rows, _ := out.Dims()
	require.Equal(t, 6, rows)
	// Raw column padded with its own mean
	assert.InDelta(t, 2.5, out.At(4, 0), 1e-12)
	assert.InDelta(t, 2.5, out.At(5, 0), 1e-12)
}

func TestConvolveAndRescaleValidation(t *testing.T) {
	_, err := ConvolveAndRescale(nil, []float64{1}, RescaleNone, ConvolveOptions{})
	require.Error(t, err)

	_, err = ConvolveAndRescale([]float64{1}, nil, RescaleNone, ConvolveOptions{})
	require.Error(t, err)

	_, err = ConvolveAndRescale([]float64{1, 2}, []float64{1}, Rescale("minmax"), ConvolveOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minmax")
}
