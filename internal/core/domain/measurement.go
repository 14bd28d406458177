package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseMeasurement reads a length as displayed by the measuring viewer, e.g.
// "12.5", "12,5" or "12.5 cm". Only the leading number is used and it must
// be positive.
func ParseMeasurement(text string) (float64, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty measurement", ErrMeasurementUnavailable)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMeasurementUnavailable, fields[0])
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: measurement must be positive, got %v", ErrMeasurementUnavailable, v)
	}
	return v, nil
}
