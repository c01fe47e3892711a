package respiratory

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/physiopy/phys2denoise/metrics/common"
)

// phaseBins is the number of amplitude-histogram bins used by the phase
// computation, after Glover et al., MRM 44, 2000.
const phaseBins = 100

// PhaseMap holds the amplitude histogram and derivative of a respiratory
// signal so that per-slice phase evaluation does not recompute them.
type PhaseMap struct {
	resp       []float64
	diff       []float64
	edges      []float64
	counts     []int
	sampleRate float64
}

// NewPhaseMap prepares phase evaluation for a respiratory signal: a
// 100-bin histogram of its amplitude distribution plus its first difference.
func NewPhaseMap(resp []float64, sampleRate float64) (*PhaseMap, error) {
	if err := common.ValidatePositive("sample_rate", sampleRate); err != nil {
		return nil, err
	}
	if len(resp) < 2 {
		return nil, fmt.Errorf("resp must contain at least 2 samples, got %d", len(resp))
	}

	min := common.Min(resp)
	max := common.Max(resp)
	width := (max - min) / phaseBins

	edges := make([]float64, phaseBins+1)
	for i := range edges {
		edges[i] = min + float64(i)*width
	}

	counts := make([]int, phaseBins)
	for _, v := range resp {
		bin := phaseBins - 1
		if width > 0 {
			bin = int((v - min) / width)
			if bin >= phaseBins {
				// The histogram's last bin is closed on the right
				bin = phaseBins - 1
			}
		}
		counts[bin]++
	}

	diff := make([]float64, len(resp)-1)
	for i := range diff {
		diff[i] = resp[i+1] - resp[i]
	}

	return &PhaseMap{
		resp:       resp,
		diff:       diff,
		edges:      edges,
		counts:     counts,
		sampleRate: sampleRate,
	}, nil
}

// At evaluates the respiratory phase at acquisition time t (seconds): the
// amplitude at the nearest sample is located in the histogram, and the phase
// is π times the signed (by the local derivative) fraction of samples below
// that amplitude bin.
func (p *PhaseMap) At(t float64) float64 {
	i := int(math.Round(t * p.sampleRate))
	if i < 1 {
		i = 1
	}
	if i > len(p.diff) {
		i = len(p.diff)
	}

	// Nearest histogram edge to the amplitude at this sample
	bin := 0
	best := math.Abs(p.resp[i] - p.edges[0])
	for e := 1; e < len(p.edges); e++ {
		d := math.Abs(p.resp[i] - p.edges[e])
		if d < best {
			best = d
			bin = e
		}
	}

	below := 0
	for b := 0; b < bin && b < len(p.counts); b++ {
		below += p.counts[b]
	}

	sign := 0.0
	if p.diff[i-1] > 0 {
		sign = 1.0
	} else if p.diff[i-1] < 0 {
		sign = -1.0
	}
	return math.Pi * sign * float64(below) / float64(len(p.resp))
}

// ForTimes evaluates the phase at each acquisition time.
func (p *PhaseMap) ForTimes(times []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = p.At(t)
	}
	return out
}

// RespiratoryPhase assigns a respiratory phase to every slice acquisition.
// The result has shape (nScans, nSlices).
func RespiratoryPhase(resp []float64, sampleRate float64, nScans int, sliceTimings []float64, tr float64) (*mat.Dense, error) {
	if nScans <= 0 {
		return nil, fmt.Errorf("n_scans must be positive, got %d", nScans)
	}
	if err := common.ValidatePositive("t_r", tr); err != nil {
		return nil, err
	}
	if len(sliceTimings) == 0 {
		return nil, fmt.Errorf("slice_timings must not be empty")
	}

	phaseMap, err := NewPhaseMap(resp, sampleRate)
	if err != nil {
		return nil, err
	}

	phase := mat.NewDense(nScans, len(sliceTimings), nil)
	column := make([]float64, nScans)
	for iSlice, offset := range sliceTimings {
		for jScan := 0; jScan < nScans; jScan++ {
			column[jScan] = phaseMap.At(tr*float64(jScan) + offset)
		}
		phase.SetCol(iSlice, column)
	}
	return phase, nil
}
