package cardiac

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/physiopy/phys2denoise/metrics/common"
)

// CardiacPhase assigns a cardiac phase to every slice acquisition. Peaks are
// sample positions (possibly fractional) converted to seconds via
// sampleRate. For each slice and scan the acquisition time is bracketed by
// the previous peak (0 when none) and the next peak (nScans*tr when none),
// and the phase is 2π(t-t1)/(t2-t1). The result has shape (nScans, nSlices)
// with every value in [0, 2π] for well-formed bracketing peak sets.
func CardiacPhase(peaks []float64, sampleRate float64, sliceTimings []float64, nScans int, tr float64) (*mat.Dense, error) {
	if err := common.ValidatePositive("sample_rate", sampleRate); err != nil {
		return nil, err
	}

	peakTimes := make([]float64, len(peaks))
	for i, p := range peaks {
		peakTimes[i] = p / sampleRate
	}
	return PhaseFromPeakTimes(peakTimes, sliceTimings, nScans, tr)
}

// PhaseFromPeakTimes is CardiacPhase with peak times already in seconds.
// The RETROICOR engine calls it directly, since its cardiac input contract
// is peak times rather than sample indices.
func PhaseFromPeakTimes(peakTimes []float64, sliceTimings []float64, nScans int, tr float64) (*mat.Dense, error) {
	if err := common.ValidateIncreasing("peaks", peakTimes); err != nil {
		return nil, err
	}
	if err := common.ValidatePositive("t_r", tr); err != nil {
		return nil, err
	}
	if nScans <= 0 {
		return nil, fmt.Errorf("n_scans must be positive, got %d", nScans)
	}
	if len(sliceTimings) == 0 {
		return nil, fmt.Errorf("slice_timings must not be empty")
	}

	phase := mat.NewDense(nScans, len(sliceTimings), nil)
	times := make([]float64, nScans)
	for iSlice, offset := range sliceTimings {
		for jScan := range times {
			times[jScan] = tr*float64(jScan) + offset
		}

		column, err := PhaseAtTimes(peakTimes, times, nScans, tr)
		if err != nil {
			return nil, err
		}
		phase.SetCol(iSlice, column)
	}
	return phase, nil
}

// PhaseAtTimes evaluates the cardiac phase at arbitrary acquisition times,
// one slice's worth at a time. peakTimes must be strictly increasing and in
// seconds; nScans*tr bounds the run when no peak follows a time.
func PhaseAtTimes(peakTimes, times []float64, nScans int, tr float64) ([]float64, error) {
	out := make([]float64, len(times))
	for i, t := range times {
		value, err := phaseAt(peakTimes, t, nScans, tr)
		if err != nil {
			return nil, err
		}
		out[i] = value
	}
	return out, nil
}

// phaseAt brackets t between the nearest preceding and following peaks.
func phaseAt(peakTimes []float64, t float64, nScans int, tr float64) (float64, error) {
	// First peak time strictly greater than t
	next := sort.Search(len(peakTimes), func(i int) bool { return peakTimes[i] > t })

	t1 := 0.0
	// Last peak time strictly less than t; a peak exactly at t bounds
	// neither side, like the reference implementation
	prev := next
	for prev > 0 && peakTimes[prev-1] >= t {
		prev--
	}
	if prev > 0 {
		t1 = peakTimes[prev-1]
	}

	t2 := float64(nScans) * tr
	if next < len(peakTimes) {
		t2 = peakTimes[next]
	}

	if t1 == t2 {
		return 0, fmt.Errorf("degenerate peak bracketing at t = %g s: previous and next peak coincide at %g s", t, t1)
	}
	return 2 * math.Pi * (t - t1) / (t2 - t1), nil
}
