// Package retroicor synthesizes RETROICOR regressors (Glover, Li & Ress,
// MRM 44, 2000): per-slice harmonic expansions of the cardiac or respiratory
// phase at each slice's acquisition times.
//
// RETROICOR regressors should be regressed from the imaging data before any
// other preprocessing, including slice-timing and motion correction.
package retroicor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/physiopy/phys2denoise/logging"
	"github.com/physiopy/phys2denoise/metrics/cardiac"
	"github.com/physiopy/phys2denoise/metrics/common"
	"github.com/physiopy/phys2denoise/metrics/respiratory"
)

// Options selects the phase source and harmonic depth.
type Options struct {
	// NHarmonics is the number of harmonics to expand; each harmonic
	// contributes a cosine and a sine column.
	NHarmonics int `json:"n_harmonics"`

	// Card marks the input as cardiac peak times, in seconds.
	Card bool `json:"card"`

	// Resp marks the input as a raw respiratory signal. Exactly one of
	// Card and Resp must be set.
	Resp bool `json:"resp"`

	Logger logging.Logger `json:"-"`
}

// Retroicor computes the per-slice RETROICOR regressors. physio is either
// cardiac peak times in seconds (opts.Card) or the raw respiratory signal
// (opts.Resp). It returns one (nScans x 2*NHarmonics) matrix per slice, with
// columns [cos(h*phase), sin(h*phase)] for h = 1..NHarmonics, plus the
// (nScans x nSlices) phase matrix. The full phase matrix is computed before
// any harmonic column is derived, and slices never share columns.
func Retroicor(physio []float64, sampleRate, tr float64, nScans int, sliceTimings []float64, opts Options) ([]*mat.Dense, *mat.Dense, error) {
	if opts.Card == opts.Resp {
		return nil, nil, fmt.Errorf("exactly one of card and resp must be set, got card=%t resp=%t", opts.Card, opts.Resp)
	}
	if opts.NHarmonics <= 0 {
		return nil, nil, fmt.Errorf("n_harmonics must be positive, got %d", opts.NHarmonics)
	}
	if nScans <= 0 {
		return nil, nil, fmt.Errorf("n_scans must be positive, got %d", nScans)
	}
	if err := common.ValidatePositive("t_r", tr); err != nil {
		return nil, nil, err
	}
	if len(sliceTimings) == 0 {
		return nil, nil, fmt.Errorf("slice_timings must not be empty")
	}

	logging.Or(opts.Logger).Debug("computing retroicor regressors", logging.Fields{
		"metric":      "retroicor",
		"cardiac":     opts.Card,
		"sample_rate": sampleRate,
		"t_r":         tr,
		"n_scans":     nScans,
		"n_slices":    len(sliceTimings),
		"n_harmonics": opts.NHarmonics,
	})

	if opts.Card {
		if err := common.ValidateIncreasing("physio", physio); err != nil {
			return nil, nil, err
		}
	}

	var phaseMap *respiratory.PhaseMap
	if opts.Resp {
		var err error
		phaseMap, err = respiratory.NewPhaseMap(physio, sampleRate)
		if err != nil {
			return nil, nil, err
		}
	}

	nSlices := len(sliceTimings)
	phase := mat.NewDense(nScans, nSlices, nil)
	for iSlice, offset := range sliceTimings {
		sliceTimes := make([]float64, nScans)
		for jScan := range sliceTimes {
			sliceTimes[jScan] = tr*float64(jScan) + offset
		}

		if opts.Card {
			column, err := cardiac.PhaseAtTimes(physio, sliceTimes, nScans, tr)
			if err != nil {
				return nil, nil, err
			}
			phase.SetCol(iSlice, column)
		} else {
			phase.SetCol(iSlice, phaseMap.ForTimes(sliceTimes))
		}
	}

	regressors := make([]*mat.Dense, nSlices)
	for iSlice := range regressors {
		reg := mat.NewDense(nScans, 2*opts.NHarmonics, nil)
		for jScan := 0; jScan < nScans; jScan++ {
			p := phase.At(jScan, iSlice)
			for h := 0; h < opts.NHarmonics; h++ {
				reg.Set(jScan, 2*h, math.Cos(float64(h+1)*p))
				reg.Set(jScan, 2*h+1, math.Sin(float64(h+1)*p))
			}
		}
		regressors[iSlice] = reg
	}
	return regressors, phase, nil
}
