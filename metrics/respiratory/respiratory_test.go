package respiratory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// breathing synthesizes a sinusoidal belt trace with the given amplitude and
// frequency, returning the trace plus the sample indices of its peaks and
// troughs.
func breathing(n int, sampleRate, amplitude, freq float64) (resp []float64, peaks, troughs []int) {
	resp = make([]float64, n)
	for i := range resp {
		resp[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	for k := 0; ; k++ {
		p := int(math.Round((float64(k) + 0.25) / freq * sampleRate))
		if p >= n {
			break
		}
		peaks = append(peaks, p)
	}
	for k := 0; ; k++ {
		t := int(math.Round((float64(k) + 0.75) / freq * sampleRate))
		if t >= n {
			break
		}
		troughs = append(troughs, t)
	}
	return resp, peaks, troughs
}

func TestPatternVariability(t *testing.T) {
	resp, _, _ := breathing(200, 10, 1, 0.3)

	value, err := PatternVariability(resp, 10)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(value))
	assert.GreaterOrEqual(t, value, 0.0)

	_, err = PatternVariability(resp, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "even")
}

func TestEnv(t *testing.T) {
	resp, _, _ := breathing(500, 10, 1, 0.3)

	env, err := Env(resp, 10, DefaultEnvOptions())
	require.NoError(t, err)
	require.Len(t, env, len(resp))
	for i, v := range env {
		assert.False(t, math.IsNaN(v), "sample %d", i)
	}
}

func TestEnvValidation(t *testing.T) {
	resp, _, _ := breathing(500, 10, 1, 0.3)

	_, err := Env(resp, 0, DefaultEnvOptions())
	require.Error(t, err)

	opts := DefaultEnvOptions()
	opts.Window = 5
	_, err = Env(resp, 10, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "even")
}

func TestVariance(t *testing.T) {
	// 20 s of breathing at 100 Hz with a 6 s window
	resp, _, _ := breathing(2000, 100, 1, 0.3)

	out, err := Variance(resp, 100, DefaultVarianceOptions())
	require.NoError(t, err)

	rows, cols := out.Dims()
	require.Equal(t, 2000, rows)
	require.Equal(t, 2, cols)
	for i := 0; i < rows; i++ {
		assert.False(t, math.IsNaN(out.At(i, 0)), "raw sample %d", i)
		assert.False(t, math.IsNaN(out.At(i, 1)), "convolved sample %d", i)
	}
}

func TestVolumePerTime(t *testing.T) {
	// 300 s of breathing at 62.5 Hz, amplitude 10, 0.3 Hz
	resp, peaks, troughs := breathing(18750, 62.5, 10, 0.3)

	out, err := VolumePerTime(resp, peaks, troughs, 62.5, DefaultRVTOptions())
	require.NoError(t, err)

	rows, cols := out.Dims()
	require.Equal(t, 18750, rows)
	require.Equal(t, 4, cols)

	// Peak-to-trough span 20 over a 1/0.3 s period gives RVT near 6
	for i := 1000; i < 17000; i += 1000 {
		assert.InDelta(t, 6.0, out.At(i, 0), 0.3, "sample %d", i)
	}

	// The 4 s lag column is the unlagged column shifted right by 250 samples
	shift := int(math.Round(4 * 62.5))
	for i := 1000; i < 10000; i += 1000 {
		assert.Equal(t, out.At(i, 0), out.At(i+shift, 1))
	}
	for i := 0; i < shift; i += 50 {
		assert.Equal(t, out.At(0, 0), out.At(i, 1))
	}
}

func TestVolumePerTimeValidation(t *testing.T) {
	resp, peaks, troughs := breathing(2000, 62.5, 10, 0.3)

	_, err := VolumePerTime(resp, peaks, troughs, 0, DefaultRVTOptions())
	require.Error(t, err)

	_, err = VolumePerTime(resp, nil, troughs, 62.5, DefaultRVTOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "peaks")

	_, err = VolumePerTime(resp, peaks[:2], troughs, 62.5, DefaultRVTOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3")

	_, err = VolumePerTime(resp, peaks, troughs[:1], 62.5, DefaultRVTOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2")

	_, err = VolumePerTime(resp, peaks, troughs, 62.5, RVTOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lags")

	_, err = VolumePerTime(resp, peaks, troughs, 62.5, RVTOptions{Lags: []float64{0, -4}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

func TestPhaseMapSignAndBounds(t *testing.T) {
	resp, _, _ := breathing(1000, 100, 1, 0.3)

	phaseMap, err := NewPhaseMap(resp, 100)
	require.NoError(t, err)

	for _, tm := range []float64{0.1, 1.3, 2.5, 4.9, 7.7} {
		v := phaseMap.At(tm)
		assert.GreaterOrEqual(t, v, -math.Pi)
		assert.LessOrEqual(t, v, math.Pi)
	}

	// Just after a zero crossing the signal is rising and the phase positive;
	// half a period later it is falling and the phase negative
	assert.Greater(t, phaseMap.At(0.2), 0.0)
	assert.Less(t, phaseMap.At(0.2+1/(2*0.3)), 0.0)
}

func TestPhaseMapConstantSignal(t *testing.T) {
	resp := make([]float64, 100)
	for i := range resp {
		resp[i] = 3.5
	}

	phaseMap, err := NewPhaseMap(resp, 10)
	require.NoError(t, err)
	assert.Equal(t, 0.0, phaseMap.At(2.0))
}

func TestRespiratoryPhaseScenario(t *testing.T) {
	resp, _, _ := breathing(18750, 62.5, 10, 0.3)
	sliceTimings := make([]float64, 20)
	for i := range sliceTimings {
		sliceTimings[i] = float64(i+1) / 21.0
	}

	phase, err := RespiratoryPhase(resp, 62.5, 200, sliceTimings, 1.0)
	require.NoError(t, err)

	rows, cols := phase.Dims()
	assert.Equal(t, 200, rows)
	assert.Equal(t, 20, cols)
}

func TestRespiratoryPhaseValidation(t *testing.T) {
	resp, _, _ := breathing(200, 10, 1, 0.3)

	_, err := RespiratoryPhase(resp, 10, 0, []float64{0.5}, 1.0)
	require.Error(t, err)

	_, err = RespiratoryPhase(resp, 10, 10, nil, 1.0)
	require.Error(t, err)

	_, err = RespiratoryPhase(resp, 10, 10, []float64{0.5}, 0)
	require.Error(t, err)

	_, err = RespiratoryPhase(resp[:1], 10, 10, []float64{0.5}, 1.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2")
}
