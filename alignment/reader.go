// Package alignment turns a reference-sorted stream of alignment records into one group of
// read intervals per reference.
package alignment

import (
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/brentp/xopen"
	"github.com/pkg/errors"
)

// Reader is satisfied by *sam.Reader and *bam.Reader.
type Reader interface {
	Read() (*sam.Record, error)
}

type closers []io.Closer

func (cs closers) Close() error {
	var err error
	for _, c := range cs {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// Open returns a Reader for a SAM (optionally gzipped) or BAM file. "-" reads SAM from stdin.
// The caller must close the returned io.Closer.
func Open(path string) (Reader, io.Closer, error) {
	if strings.HasSuffix(path, ".bam") {
		fh, err := os.Open(path)
		if err != nil {
			return nil, nil, errors.Wrap(err, "alignment: opening bam")
		}
		br, err := bam.NewReader(fh, 2)
		if err != nil {
			fh.Close()
			return nil, nil, errors.Wrapf(err, "alignment: reading bam header from %s", path)
		}
		return br, closers{br, fh}, nil
	}
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "alignment: opening sam")
	}
	sr, err := sam.NewReader(fh)
	if err != nil {
		fh.Close()
		return nil, nil, errors.Wrapf(err, "alignment: reading sam header from %s", path)
	}
	return sr, fh, nil
}

// Span returns the 1-based inclusive reference interval of a record: from its leftmost
// position over the length of the aligned sequence. When the sequence is absent ("*") the
// query length of the cigar is used. ok is false if neither gives a length.
func Span(rec *sam.Record) (start, end int, ok bool) {
	n := rec.Seq.Length
	if n == 0 {
		_, n = rec.Cigar.Lengths()
	}
	if n <= 0 {
		return 0, 0, false
	}
	start = rec.Pos + 1
	return start, start + n - 1, true
}
