// Package readlen estimates the average length of the sequenced reads, either from the reads
// themselves (FASTQ) or from a sample of alignment records.
package readlen

import (
	"fmt"
	"io"
	"log"
	"os"

	arg "github.com/alexflint/go-arg"
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/hts/sam"
	"github.com/brentp/covratio/alignment"
	"github.com/brentp/xopen"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// ErrNoReads is returned when no read length could be measured.
var ErrNoReads = errors.New("readlen: could not extract average read length")

// FromFastq returns the mean sequence length of a (possibly gzipped) FASTQ file.
func FromFastq(path string) (float64, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return 0, errors.Wrap(err, "readlen: opening fastq")
	}
	defer fh.Close()
	return fromFastq(fh, path)
}

func fromFastq(r io.Reader, path string) (float64, error) {
	sc := seqio.NewScanner(fastq.NewReader(r, linear.NewQSeq("", nil, alphabet.DNA, alphabet.Sanger)))
	var total, n int
	for sc.Next() {
		total += sc.Seq().Len()
		n++
	}
	if err := sc.Error(); err != nil {
		return 0, errors.Wrap(err, path)
	}
	if n == 0 || total == 0 {
		return 0, errors.Wrap(ErrNoReads, path)
	}
	return float64(total) / float64(n), nil
}

// FromRecords returns the mean sequence length of the first n mapped records of r. Records
// without a sequence use the query length of their cigar.
func FromRecords(r alignment.Reader, n int) (float64, error) {
	sizes := make([]float64, 0, n)
	for len(sizes) < n {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errors.Wrap(err, "readlen: reading alignment")
		}
		if rec.Flags&(sam.Unmapped|sam.Secondary|sam.Supplementary) != 0 {
			continue
		}
		if s, e, ok := alignment.Span(rec); ok {
			sizes = append(sizes, float64(e-s+1))
		}
	}
	if len(sizes) == 0 {
		return 0, ErrNoReads
	}
	return stat.Mean(sizes, nil), nil
}

// FromAlignmentFile samples the first n records of a SAM/BAM file.
func FromAlignmentFile(path string, n int) (float64, error) {
	r, c, err := alignment.Open(path)
	if err != nil {
		return 0, err
	}
	defer c.Close()
	l, err := FromRecords(r, n)
	return l, errors.Wrap(err, path)
}

type cliargs struct {
	N     int      `arg:"-n" help:"number of alignment records to sample for sam/bam input"`
	Files []string `arg:"positional,required" help:"fastq(.gz) or sam/bam files"`
}

func pcheck(e error) {
	if e != nil {
		log.Fatal(e)
	}
}

// Main is called from the dispatcher
func Main() {
	cli := cliargs{N: 100000}
	arg.MustParse(&cli)
	for _, p := range cli.Files {
		var l float64
		var err error
		if isAlignment(p) {
			l, err = FromAlignmentFile(p, cli.N)
		} else {
			l, err = FromFastq(p)
		}
		pcheck(err)
		fmt.Fprintf(os.Stdout, "%.2f\t%s\n", l, p)
	}
}

func isAlignment(p string) bool {
	for _, ext := range []string{".bam", ".sam", ".sam.gz"} {
		if len(p) >= len(ext) && p[len(p)-len(ext):] == ext {
			return true
		}
	}
	return false
}
