package common

import (
	"fmt"
)

// ValidateMarkers checks that marker indices (detected peaks or troughs) are
// non-empty, strictly increasing, and inside a signal of length n.
func ValidateMarkers(name string, markers []int, n int) error {
	if len(markers) == 0 {
		return fmt.Errorf("%s must not be empty", name)
	}
	for i, m := range markers {
		if m < 0 || m >= n {
			return fmt.Errorf("%s[%d] = %d is outside the signal (length %d)", name, i, m, n)
		}
		if i > 0 && m <= markers[i-1] {
			return fmt.Errorf("%s must be strictly increasing, got %s[%d] = %d after %d",
				name, name, i, m, markers[i-1])
		}
	}
	return nil
}

// ValidateIncreasing checks that a sequence of marker positions expressed as
// real values (sample indices or seconds) is non-empty and strictly
// increasing.
func ValidateIncreasing(name string, values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("%s must not be empty", name)
	}
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return fmt.Errorf("%s must be strictly increasing, got %s[%d] = %g after %g",
				name, name, i, values[i], values[i-1])
		}
	}
	return nil
}

// ValidatePositive checks that a scalar parameter is strictly positive.
func ValidatePositive(name string, value float64) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %g", name, value)
	}
	return nil
}
