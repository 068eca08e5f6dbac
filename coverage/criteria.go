package coverage

import (
	"fmt"
	"math"
)

const (
	DefaultRatio    = 0.3
	DefaultCoverage = 0.1
	DefaultMinReads = 10
)

// Criteria holds the thresholds shared, read-only, by every step of a run.
type Criteria struct {
	// Ratio is the minimum of min(support, predicted) / max(support, predicted).
	Ratio float64
	// Coverage is the minimum observed support.
	Coverage float64
	// MinReads is the minimum estimated abundance for a reference to be reported.
	MinReads int
	// ReportRatio adds support, predicted support and ratio columns to the report.
	ReportRatio bool
	// AvgReadLen is the mean length of the sequenced reads.
	AvgReadLen float64
}

// DefaultCriteria returns the default thresholds. AvgReadLen must still be set.
func DefaultCriteria() Criteria {
	return Criteria{Ratio: DefaultRatio, Coverage: DefaultCoverage, MinReads: DefaultMinReads}
}

func unitRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// Sanitize replaces out-of-range thresholds with their defaults and returns a warning for each
// replacement. Bad values are not fatal.
func (c Criteria) Sanitize() (Criteria, []string) {
	var warnings []string
	if !unitRange(c.Ratio) {
		warnings = append(warnings, fmt.Sprintf("The ratio criteria should be between 0.0 and 1.0, got %v. Using the default value: %v.", c.Ratio, DefaultRatio))
		c.Ratio = DefaultRatio
	}
	if !unitRange(c.Coverage) {
		warnings = append(warnings, fmt.Sprintf("The coverage criteria should be between 0.0 and 1.0, got %v. Using the default value: %v.", c.Coverage, DefaultCoverage))
		c.Coverage = DefaultCoverage
	}
	if c.MinReads < 0 {
		warnings = append(warnings, fmt.Sprintf("The number of reads criteria should not be negative, got %d. Using the default value: %d.", c.MinReads, DefaultMinReads))
		c.MinReads = DefaultMinReads
	}
	return c, warnings
}
