package coverage

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// Depth is the mean number of reads expected over a base: reads * readLength / genomeLength.
func Depth(readCount int, avgReadLen float64, genomeLength int) float64 {
	if genomeLength <= 0 || readCount <= 0 || avgReadLen <= 0 {
		return 0
	}
	return float64(readCount) * avgReadLen / float64(genomeLength)
}

// PredictedSupport is the fraction of the genome expected to be covered when readCount reads
// of length avgReadLen are placed uniformly at random: 1 - P(X=0) for X ~ Poisson(depth).
func PredictedSupport(readCount int, avgReadLen float64, genomeLength int) float64 {
	d := Depth(readCount, avgReadLen, genomeLength)
	if d == 0 {
		return 0
	}
	return 1 - distuv.Poisson{Lambda: d}.Prob(0)
}

// Ratio is min(a, b) / max(a, b), or 0 when both are 0. It is symmetric and lies in [0, 1].
func Ratio(a, b float64) float64 {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi <= 0 {
		return 0
	}
	return lo / hi
}

// Classify returns the ratio of observed to predicted support and whether it passes both the
// ratio and coverage criteria.
func Classify(support, predicted float64, c Criteria) (ratio float64, passed bool) {
	ratio = Ratio(support, predicted)
	return ratio, ratio >= c.Ratio && support >= c.Coverage
}

// Verdict is the outcome of the coverage test for one reference.
type Verdict struct {
	ID               string
	GenomeLength     int
	Reads            int
	CoveredBases     int
	Support          float64
	PredictedSupport float64
	Ratio            float64
	Passed           bool
}

func (v Verdict) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%.4g\t%.4g\t%.4f\t%v", v.ID, v.Reads, v.CoveredBases,
		v.Support, v.PredictedSupport, v.Ratio, v.Passed)
}

// Evaluate computes the Verdict for the reads (intervals and readCount) of a single reference.
func Evaluate(id string, genomeLength int, readCount int, ivs []Interval, c Criteria) Verdict {
	v := Verdict{ID: id, GenomeLength: genomeLength, Reads: readCount}
	v.CoveredBases = CoveredBases(genomeLength, ivs)
	if genomeLength > 0 {
		v.Support = float64(v.CoveredBases) / float64(genomeLength)
	}
	v.PredictedSupport = PredictedSupport(readCount, c.AvgReadLen, genomeLength)
	v.Ratio, v.Passed = Classify(v.Support, v.PredictedSupport, c)
	return v
}
