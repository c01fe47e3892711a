package physio

import (
	"time"
)

// HistoryEntry records one metric computation: which metric ran and with
// which resolved parameters.
type HistoryEntry struct {
	Metric string         `json:"metric"`
	Params map[string]any `json:"params"`
	At     time.Time      `json:"at"`
}

// History is an append-only log of metric computations. It belongs to the
// orchestration layer; metric functions themselves never write it.
type History struct {
	entries []HistoryEntry
	now     func() time.Time
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{now: time.Now}
}

// Append records a computation. The params map is copied, so callers may
// reuse theirs.
func (h *History) Append(metric string, params map[string]any) {
	copied := make(map[string]any, len(params))
	for k, v := range params {
		copied[k] = v
	}
	h.entries = append(h.entries, HistoryEntry{
		Metric: metric,
		Params: copied,
		At:     h.now(),
	})
}

// Entries returns a copy of the log in append order.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len reports how many computations have been recorded.
func (h *History) Len() int {
	return len(h.entries)
}
