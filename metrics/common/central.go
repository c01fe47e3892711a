package common

import (
	"fmt"
)

// CentralMeasure is the statistic used to summarize values inside a window.
type CentralMeasure int

const (
	CentralMean CentralMeasure = iota
	CentralMedian
	CentralStdDev
)

func (c CentralMeasure) String() string {
	switch c {
	case CentralMean:
		return "mean"
	case CentralMedian:
		return "median"
	case CentralStdDev:
		return "stdev"
	default:
		return "unknown"
	}
}

// Apply computes the measure over data. Empty data yields NaN, which
// callers substitute according to their own degeneracy policy.
func (c CentralMeasure) Apply(data []float64) float64 {
	switch c {
	case CentralMedian:
		return Median(data)
	case CentralStdDev:
		return StdDev(data)
	default:
		return Mean(data)
	}
}

// ParseCentralMeasure maps the accepted selector strings onto a
// CentralMeasure. Unrecognized values are an error, never a silent default.
func ParseCentralMeasure(name string) (CentralMeasure, error) {
	switch name {
	case "mean", "average", "avg":
		return CentralMean, nil
	case "median", "mdn":
		return CentralMedian, nil
	case "stdev", "std":
		return CentralStdDev, nil
	default:
		return 0, fmt.Errorf("central_measure %q is not a supported measure of centrality", name)
	}
}
