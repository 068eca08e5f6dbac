package coverage_test

import (
	"fmt"

	"github.com/brentp/covratio/coverage"
)

func ExampleCoveredBases() {
	// overlapping, adjacent, repeated and out-of-range reads on a 1000 base genome.
	reads := []coverage.Interval{
		{Start: 401, End: 500},
		{Start: 1, End: 100},
		{Start: 51, End: 150},
		{Start: 151, End: 200},
		{Start: 1, End: 100},
		{Start: 951, End: 1050},
		{Start: 1001, End: 1100},
	}
	n := coverage.CoveredBases(1000, reads)
	fmt.Println(n, coverage.Support(1000, reads))

	c := coverage.DefaultCriteria()
	c.AvgReadLen = 100
	v := coverage.Evaluate("v1", 1000, 5, []coverage.Interval{{1, 100}, {101, 200}, {201, 300}, {301, 400}, {401, 500}}, c)
	fmt.Printf("%.4f %.4f %.4f %v\n", v.Support, v.PredictedSupport, v.Ratio, v.Passed)

	// Output:
	// 350 0.35
	// 0.5000 0.3935 0.7869 true
}
