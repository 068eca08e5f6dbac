// Package coverage decides whether the reads mapped to a reference are consistent with
// that reference being present in a sample. It compares the fraction of the genome touched
// by reads (support) with the fraction expected under random read placement
// (Lander-Waterman) and reports the symmetric ratio of the two.
package coverage

import "sort"

// Interval is a 1-based, inclusive span of reference positions covered by a read.
type Interval struct {
	Start, End int
}

// Len is the number of positions in the interval.
func (iv Interval) Len() int {
	if iv.End < iv.Start {
		return 0
	}
	return iv.End - iv.Start + 1
}

// Less orders intervals by start then end.
func (iv Interval) Less(o Interval) bool {
	if iv.Start != o.Start {
		return iv.Start < o.Start
	}
	return iv.End < o.End
}

// SortIntervals sorts in place by (Start, End).
func SortIntervals(ivs []Interval) {
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].Less(ivs[j]) })
}

// Dedup removes repeated intervals from a sorted slice.
func Dedup(ivs []Interval) []Interval {
	if len(ivs) < 2 {
		return ivs
	}
	k := 1
	for _, iv := range ivs[1:] {
		if iv != ivs[k-1] {
			ivs[k] = iv
			k++
		}
	}
	return ivs[:k]
}

func clip(iv Interval, genomeLength int) (Interval, bool) {
	if iv.End < 1 || iv.Start > genomeLength || iv.End < iv.Start {
		return iv, false
	}
	if iv.Start < 1 {
		iv.Start = 1
	}
	if iv.End > genomeLength {
		iv.End = genomeLength
	}
	return iv, true
}

// CoveredBases returns the number of positions in [1, genomeLength] covered by at least one
// interval. The input is not modified.
func CoveredBases(genomeLength int, ivs []Interval) int {
	if genomeLength <= 0 || len(ivs) == 0 {
		return 0
	}
	clipped := make([]Interval, 0, len(ivs))
	for _, iv := range ivs {
		if c, ok := clip(iv, genomeLength); ok {
			clipped = append(clipped, c)
		}
	}
	if len(clipped) == 0 {
		return 0
	}
	SortIntervals(clipped)

	covered := 0
	cur := clipped[0]
	for _, iv := range clipped[1:] {
		// adjacent intervals merge as well as overlapping ones.
		if iv.Start <= cur.End+1 {
			if iv.End > cur.End {
				cur.End = iv.End
			}
			continue
		}
		covered += cur.Len()
		cur = iv
	}
	return covered + cur.Len()
}

// Support is the fraction of the genome covered by at least one interval.
func Support(genomeLength int, ivs []Interval) float64 {
	if genomeLength <= 0 {
		return 0
	}
	return float64(CoveredBases(genomeLength, ivs)) / float64(genomeLength)
}
