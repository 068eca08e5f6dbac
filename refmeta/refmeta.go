// Package refmeta loads the genome length and lineage of every reference in the database.
package refmeta

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/brentp/xopen"
	"github.com/pkg/errors"
)

// NoLineage is used for references listed without a lineage.
const NoLineage = "N/A\tN/A"

// ErrMissingMetadata is returned by MustLookup for an unknown reference.
var ErrMissingMetadata = errors.New("refmeta: no genome length for reference")

// Reference is a row of the reference list.
type Reference struct {
	ID      string
	Length  int
	Lineage string
}

// Table maps reference ids to their metadata. It is not modified after loading.
type Table map[string]Reference

// Lookup returns the Reference for id.
func (t Table) Lookup(id string) (Reference, bool) {
	r, ok := t[id]
	return r, ok
}

// MustLookup is Lookup returning ErrMissingMetadata, with the id, for unknown references.
func (t Table) MustLookup(id string) (Reference, error) {
	r, ok := t[id]
	if !ok {
		return r, errors.Wrapf(ErrMissingMetadata, "%s. Please make sure you provided the right genome-length file", id)
	}
	return r, nil
}

// Lineage returns the two lineage columns for id, or NoLineage.
func (t Table) Lineage(id string) string {
	if r, ok := t[id]; ok && r.Lineage != "" {
		return r.Lineage
	}
	return NoLineage
}

func parseLine(line string) (Reference, error) {
	toks := strings.Split(line, "\t")
	for len(toks) > 1 && strings.TrimSpace(toks[len(toks)-1]) == "" {
		toks = toks[:len(toks)-1]
	}
	var r Reference
	var length string
	switch len(toks) {
	case 2:
		length = toks[1]
		r.Lineage = NoLineage
	case 4:
		length = toks[3]
		r.Lineage = strings.TrimSpace(toks[1]) + "\t" + strings.TrimSpace(toks[2])
	default:
		return r, errors.Errorf("expected 2 or 4 tab-separated fields, got %d", len(toks))
	}
	r.ID = strings.TrimSpace(toks[0])
	if r.ID == "" {
		return r, errors.New("empty reference id")
	}
	n, err := strconv.Atoi(strings.TrimSpace(length))
	if err != nil {
		return r, errors.Wrap(err, "genome length")
	}
	if n <= 0 {
		return r, errors.Errorf("genome length must be positive, got %d", n)
	}
	r.Length = n
	return r, nil
}

// Read parses a reference list. Each line is either id<TAB>length or
// id<TAB>lineage1<TAB>lineage2<TAB>length. Blank lines are skipped.
func Read(r io.Reader) (Table, error) {
	t := make(Table, 1024)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 16384), 1<<24)
	k := 0
	for sc.Scan() {
		k++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		ref, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "refmeta: line %d", k)
		}
		t[ref.ID] = ref
	}
	return t, sc.Err()
}

// ReadFile reads a (possibly gzipped) reference list.
func ReadFile(path string) (Table, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, errors.Wrap(err, "refmeta: opening reference list")
	}
	defer fh.Close()
	t, err := Read(fh)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	log.Printf("read lengths of %d references from %s", len(t), path)
	return t, nil
}

// FromFasta builds a Table from the sequences of a (possibly gzipped) FASTA database. The id is
// the first word of each header and the lineage is NoLineage. ids is in file order.
func FromFasta(path string) (t Table, ids []string, err error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "refmeta: opening fasta")
	}
	defer fh.Close()

	t = make(Table, 1024)
	sc := seqio.NewScanner(fasta.NewReader(fh, linear.NewSeq("", nil, alphabet.DNA)))
	for sc.Next() {
		s := sc.Seq()
		id := s.Name()
		if s.Len() == 0 {
			log.Printf("refmeta: skipping empty sequence %s in %s", id, path)
			continue
		}
		if _, ok := t[id]; !ok {
			ids = append(ids, id)
		}
		t[id] = Reference{ID: id, Length: s.Len(), Lineage: NoLineage}
	}
	if err := sc.Error(); err != nil {
		return nil, nil, errors.Wrap(err, path)
	}
	log.Printf("read lengths of %d references from %s", len(t), path)
	return t, ids, nil
}

// Write writes the references named in ids, in that order, as a 4-column reference list.
func Write(w io.Writer, t Table, ids []string) error {
	for _, id := range ids {
		r, ok := t[id]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\n", r.ID, r.lineage(), r.Length); err != nil {
			return err
		}
	}
	return nil
}

func (r Reference) lineage() string {
	if r.Lineage == "" {
		return NoLineage
	}
	return r.Lineage
}
