// Package physio holds the value types the metric packages consume: an
// immutable physiological Signal with its sampling rate and detected
// peak/trough metadata, and an append-only computation History for the
// orchestration layer.
package physio

import (
	"fmt"

	"github.com/physiopy/phys2denoise/metrics/common"
)

// Signal is a physiological recording at a fixed sampling rate, with
// optional peak/trough indices from an upstream detector. Treat it as
// immutable once built; metric functions read it and never write it.
type Signal struct {
	Data       []float64
	SampleRate float64

	// Peaks and Troughs are strictly increasing sample indices into Data,
	// or nil when no detector output is attached.
	Peaks   []int
	Troughs []int
}

// NewSignal validates and wraps a recording.
func NewSignal(data []float64, sampleRate float64) (*Signal, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("data must not be empty")
	}
	if err := common.ValidatePositive("sample_rate", sampleRate); err != nil {
		return nil, err
	}
	return &Signal{Data: data, SampleRate: sampleRate}, nil
}

// WithPeaks returns a copy of the signal carrying validated peak indices.
func (s *Signal) WithPeaks(peaks []int) (*Signal, error) {
	if err := common.ValidateMarkers("peaks", peaks, len(s.Data)); err != nil {
		return nil, err
	}
	out := *s
	out.Peaks = peaks
	return &out, nil
}

// WithTroughs returns a copy of the signal carrying validated trough indices.
func (s *Signal) WithTroughs(troughs []int) (*Signal, error) {
	if err := common.ValidateMarkers("troughs", troughs, len(s.Data)); err != nil {
		return nil, err
	}
	out := *s
	out.Troughs = troughs
	return &out, nil
}

// Duration returns the recording length in seconds.
func (s *Signal) Duration() float64 {
	return float64(len(s.Data)) / s.SampleRate
}

// PeakTimes returns the peak positions in seconds.
func (s *Signal) PeakTimes() []float64 {
	return indexTimes(s.Peaks, s.SampleRate)
}

// TroughTimes returns the trough positions in seconds.
func (s *Signal) TroughTimes() []float64 {
	return indexTimes(s.Troughs, s.SampleRate)
}

func indexTimes(indices []int, sampleRate float64) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = float64(idx) / sampleRate
	}
	return out
}
