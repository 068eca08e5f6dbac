package filter

import (
	"github.com/brentp/covratio/alignment"
	"github.com/brentp/covratio/coverage"
	"github.com/brentp/covratio/refmeta"
	"github.com/exascience/pargo/parallel"
)

// DefaultBatch is the number of completed groups evaluated together.
const DefaultBatch = 64

// Verdicts reads every Group from g and evaluates it against c. Groups are read sequentially
// and evaluated in parallel, batch at a time, so at most batch groups are held in memory.
// References missing from meta are skipped, reported through warn and returned in missing.
func Verdicts(g *alignment.Grouper, meta refmeta.Table, c coverage.Criteria, batch int, warn func(error)) (verdicts map[string]coverage.Verdict, missing []string, err error) {
	if batch < 1 {
		batch = DefaultBatch
	}
	verdicts = make(map[string]coverage.Verdict, 256)
	groups := make([]alignment.Group, 0, batch)
	lengths := make([]int, 0, batch)
	out := make([]coverage.Verdict, batch)

	flush := func() {
		if len(groups) == 0 {
			return
		}
		parallel.Range(0, len(groups), 0, func(low, high int) {
			for i := low; i < high; i++ {
				grp := groups[i]
				out[i] = coverage.Evaluate(grp.Ref, lengths[i], grp.Reads, grp.Intervals, c)
			}
		})
		for _, v := range out[:len(groups)] {
			verdicts[v.ID] = v
		}
		groups, lengths = groups[:0], lengths[:0]
	}

	for g.Next() {
		grp := g.Group()
		ref, lerr := meta.MustLookup(grp.Ref)
		if lerr != nil {
			if warn != nil {
				warn(lerr)
			}
			missing = append(missing, grp.Ref)
			continue
		}
		groups = append(groups, grp)
		lengths = append(lengths, ref.Length)
		if len(groups) == batch {
			flush()
		}
	}
	if err = g.Err(); err != nil {
		return nil, missing, err
	}
	flush()
	return verdicts, missing, nil
}
