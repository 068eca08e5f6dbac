package alignment

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/biogo/store/interval"
	"github.com/brentp/xopen"
	"github.com/pkg/errors"
)

// Integer-specific intervals
type irange struct {
	Start, End int
	UID        uintptr
}

func (i irange) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return i.End > b.Start && i.Start < b.End
}
func (i irange) ID() uintptr              { return i.UID }
func (i irange) Range() interval.IntRange { return interval.IntRange{Start: i.Start, End: i.End} }

// Mask holds regions, per reference, whose reads are ignored, e.g. low-complexity stretches
// that attract cross-mapped reads. A nil Mask masks nothing.
type Mask map[string]*interval.IntTree

// Overlaps reports whether the 1-based inclusive span [start, end] on ref touches a masked
// region.
func (m Mask) Overlaps(ref string, start, end int) bool {
	tree, ok := m[ref]
	if !ok || tree == nil {
		return false
	}
	q := irange{Start: start - 1, End: end, UID: uintptr(tree.Len())}

	overlaps := false
	tree.DoMatching(func(iv interval.IntInterface) bool {
		overlaps = true
		return true
	}, q)
	return overlaps
}

func (m Mask) add(line string, k int) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
		return false, nil
	}
	toks := strings.Fields(line)
	if len(toks) < 3 {
		return false, errors.Errorf("alignment: expected at least 3 bed columns, got %q", line)
	}
	s, serr := strconv.Atoi(toks[1])
	e, eerr := strconv.Atoi(toks[2])
	if serr != nil || eerr != nil || e < s {
		return false, errors.Errorf("alignment: bad bed interval %q", line)
	}
	if e == s {
		return false, nil
	}
	if _, ok := m[toks[0]]; !ok {
		m[toks[0]] = &interval.IntTree{}
	}
	if err := m[toks[0]].Insert(irange{s, e, uintptr(k)}, false); err != nil {
		return false, errors.Wrapf(err, "alignment: inserting %q", line)
	}
	return true, nil
}

// ReadMask reads a BED file (0-based, half-open) into a Mask.
func ReadMask(r io.Reader) (Mask, error) {
	br := bufio.NewReader(r)
	m := make(Mask, 10)
	k := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			added, aerr := m.add(line, k)
			if aerr != nil {
				return nil, aerr
			}
			if added {
				k++
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ReadMaskFile reads a (possibly gzipped) BED file. An empty path gives a nil Mask.
func ReadMaskFile(path string) (Mask, error) {
	if path == "" {
		return nil, nil
	}
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, errors.Wrap(err, "alignment: opening mask")
	}
	defer fh.Close()
	m, err := ReadMask(fh)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	n := 0
	for _, t := range m {
		n += t.Len()
	}
	log.Printf("read %d masked intervals from %s", n, path)
	return m, nil
}
