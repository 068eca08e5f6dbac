package alignment

import (
	"io"

	"github.com/biogo/hts/sam"
	"github.com/brentp/covratio/coverage"
	"github.com/pkg/errors"
)

var (
	// ErrEmptyAlignmentStream is returned when the stream holds no alignment records at all.
	ErrEmptyAlignmentStream = errors.New("alignment: no alignment records found")
	// ErrOrderingViolation is returned when the records of a reference are not contiguous.
	ErrOrderingViolation = errors.New("alignment: records are not grouped by reference")
)

// Group holds the reads of one reference. Intervals are sorted by (Start, End) and
// deduplicated. Reads counts every contributing record, including duplicates.
type Group struct {
	Ref       string
	Intervals []coverage.Interval
	Reads     int
}

// Grouper reads a stream of records sorted (or at least grouped) by reference and yields one
// Group per run of records with the same reference. It is used like bufio.Scanner:
//
//	g := NewGrouper(r, nil)
//	for g.Next() {
//		grp := g.Group()
//	}
//	if err := g.Err(); err != nil {
//		...
//	}
//
// Only the group being built is held in memory.
type Grouper struct {
	r    Reader
	mask Mask

	// references whose group has been started.
	seen map[string]bool
	cur  *Group
	out  Group
	err  error
	done bool

	records  int
	unmapped int
	masked   int
	noSpan   int
}

// NewGrouper returns a Grouper over r. Reads overlapping a region in mask are skipped.
func NewGrouper(r Reader, mask Mask) *Grouper {
	return &Grouper{r: r, mask: mask, seen: make(map[string]bool, 128)}
}

func (g *Grouper) start(ref, prev string) error {
	if g.seen[ref] {
		return errors.Wrapf(ErrOrderingViolation, "%s appears again after %s", ref, prev)
	}
	g.seen[ref] = true
	g.cur = &Group{Ref: ref, Intervals: make([]coverage.Interval, 0, 64)}
	return nil
}

func (g *Grouper) add(rec *sam.Record) {
	s, e, ok := Span(rec)
	if ok && g.mask.Overlaps(g.cur.Ref, s, e) {
		g.masked++
		return
	}
	g.cur.Reads++
	if !ok {
		g.noSpan++
		return
	}
	g.cur.Intervals = append(g.cur.Intervals, coverage.Interval{Start: s, End: e})
}

func (g *Grouper) finish() {
	coverage.SortIntervals(g.cur.Intervals)
	g.cur.Intervals = coverage.Dedup(g.cur.Intervals)
	g.out = *g.cur
	g.cur = nil
}

// Next advances to the next complete Group. It returns false at the end of the stream or on
// error.
func (g *Grouper) Next() bool {
	if g.err != nil || g.done {
		return false
	}
	for {
		rec, err := g.r.Read()
		if err == io.EOF {
			g.done = true
			if g.records == 0 {
				g.err = ErrEmptyAlignmentStream
				return false
			}
			if g.cur == nil {
				return false
			}
			g.finish()
			return true
		}
		if err != nil {
			g.err = errors.Wrapf(err, "alignment: reading record %d", g.records+1)
			return false
		}
		g.records++
		if rec.Ref == nil || rec.Flags&sam.Unmapped != 0 {
			g.unmapped++
			continue
		}
		ref := rec.Ref.Name()
		if g.cur != nil && g.cur.Ref == ref {
			g.add(rec)
			continue
		}
		ready, prev := g.cur != nil, ""
		if ready {
			prev = g.cur.Ref
			g.finish()
		}
		if g.err = g.start(ref, prev); g.err != nil {
			return false
		}
		g.add(rec)
		if ready {
			return true
		}
	}
}

// Group returns the most recent Group found by Next. The caller owns it.
func (g *Grouper) Group() Group { return g.out }

// Err returns the first error met, including ErrEmptyAlignmentStream and
// ErrOrderingViolation (use errors.Cause to compare).
func (g *Grouper) Err() error { return g.err }

// Records is the number of records read so far, mapped or not.
func (g *Grouper) Records() int { return g.records }

// Unmapped is the number of records skipped for lacking a reference.
func (g *Grouper) Unmapped() int { return g.unmapped }

// Masked is the number of records skipped for overlapping the mask.
func (g *Grouper) Masked() int { return g.masked }

// NoSpan is the number of counted records that had neither sequence nor cigar length.
func (g *Grouper) NoSpan() int { return g.noSpan }
