// Package abundance reads the per-reference read-count estimates written by a quantifier.
package abundance

import (
	"bufio"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
	"github.com/pkg/errors"
)

// Layout identifies the quantifier that wrote the table and so the column of the estimate.
type Layout int

const (
	// Kallisto abundance.tsv: target_id length eff_length est_counts tpm
	Kallisto Layout = iota
	// Salmon quant.sf: Name Length EffectiveLength TPM NumReads
	Salmon
)

// Field is the 0-based column holding the estimated read count.
func (l Layout) Field() int {
	if l == Salmon {
		return 4
	}
	return 3
}

func (l Layout) String() string {
	if l == Salmon {
		return "salmon"
	}
	return "kallisto"
}

// Estimate is the estimated number of reads from a reference.
type Estimate struct {
	ID    string
	Count float64
}

// Table holds the non-zero estimates in the order they were first seen.
type Table struct {
	Estimates []Estimate
	index     map[string]int
}

// Get returns the estimate for id, or 0.
func (t *Table) Get(id string) float64 {
	if i, ok := t.index[id]; ok {
		return t.Estimates[i].Count
	}
	return 0
}

// Len is the number of non-zero estimates.
func (t *Table) Len() int { return len(t.Estimates) }

func (t *Table) set(id string, v float64) {
	if i, ok := t.index[id]; ok {
		t.Estimates[i].Count = v
		return
	}
	t.index[id] = len(t.Estimates)
	t.Estimates = append(t.Estimates, Estimate{ID: id, Count: v})
}

// Read parses a quantifier table. The first line is a header. Rows with an estimate of 0 are
// dropped; a repeated id keeps its first position and its last value.
func Read(r io.Reader, layout Layout) (*Table, error) {
	t := &Table{index: make(map[string]int, 1024)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 16384), 1<<24)
	field := layout.Field()
	k := 0
	for sc.Scan() {
		k++
		if k == 1 {
			continue
		}
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		toks := strings.Split(line, "\t")
		if len(toks) <= field {
			return nil, errors.Errorf("abundance: line %d has %d fields, %s output needs %d", k, len(toks), layout, field+1)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(toks[field]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "abundance: line %d", k)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Errorf("abundance: line %d: non-finite estimate %v", k, v)
		}
		if v < 0 {
			return nil, errors.Errorf("abundance: line %d: negative estimate %v", k, v)
		}
		if v == 0 {
			continue
		}
		t.set(toks[0], v)
	}
	return t, sc.Err()
}

// ReadFile reads a (possibly gzipped) quantifier table.
func ReadFile(path string, layout Layout) (*Table, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, errors.Wrap(err, "abundance: opening table")
	}
	defer fh.Close()
	t, err := Read(fh, layout)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	log.Printf("read %d non-zero %s estimates from %s", t.Len(), layout, path)
	return t, nil
}
