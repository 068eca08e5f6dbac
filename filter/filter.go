// Package filter runs the whole verification: it groups the alignments by reference, tests
// the coverage of each reference against the Lander-Waterman expectation, and writes the
// references that pass, with their abundance, sorted by abundance.
package filter

import (
	"fmt"
	"log"
	"os"

	"github.com/brentp/covratio/abundance"
	"github.com/brentp/covratio/alignment"
	"github.com/brentp/covratio/coverage"
	"github.com/brentp/covratio/readlen"
	"github.com/brentp/covratio/refmeta"
	"github.com/brentp/covratio/report"
	"github.com/brentp/xopen"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// number of alignment records sampled for the read length when no fastq is given.
const sampleReads = 100000

// Options configure a Run.
type Options struct {
	// Alignments is a SAM, SAM.gz or BAM file sorted by reference. "-" is stdin.
	Alignments string
	// List is the reference list of genome lengths and lineages.
	List string
	// DB is a FASTA database used for genome lengths when List is empty.
	DB string
	// Abundance is the quantifier output.
	Abundance string
	Layout    abundance.Layout
	// Reads is a FASTQ used to measure the average read length if Criteria.AvgReadLen is 0.
	Reads string
	// Mask is an optional BED of regions whose reads are ignored.
	Mask string
	// Out is the report path. "-" is stdout.
	Out string
	// Plot is an optional path for a support scatter plot.
	Plot  string
	Batch int

	Criteria coverage.Criteria
}

// Result summarizes a Run.
type Result struct {
	Records  int
	Criteria coverage.Criteria
	Verdicts map[string]coverage.Verdict
	Missing  []string
	Rows     []report.Row
}

var warnColor = color.New(color.FgYellow).SprintFunc()

func warn(err error) {
	fmt.Fprintln(os.Stderr, warnColor("WARNING: "+err.Error()))
}

func readLength(o Options) (float64, error) {
	if o.Criteria.AvgReadLen > 0 {
		return o.Criteria.AvgReadLen, nil
	}
	if o.Reads != "" {
		return readlen.FromFastq(o.Reads)
	}
	if o.Alignments == "-" {
		return 0, errors.Wrap(readlen.ErrNoReads, "give the read length or the reads when streaming alignments")
	}
	log.Printf("sampling up to %d records of %s for the average read length", sampleReads, o.Alignments)
	return readlen.FromAlignmentFile(o.Alignments, sampleReads)
}

func metadata(o Options) (refmeta.Table, error) {
	if o.List != "" {
		return refmeta.ReadFile(o.List)
	}
	if o.DB != "" {
		t, _, err := refmeta.FromFasta(o.DB)
		return t, err
	}
	return nil, errors.New("filter: a reference list or a fasta database is required")
}

// Run executes the pipeline described by o and writes the report.
func Run(o Options) (*Result, error) {
	c, warnings := o.Criteria.Sanitize()
	for _, w := range warnings {
		warn(errors.New(w))
	}
	var err error
	o.Criteria = c
	if c.AvgReadLen, err = readLength(o); err != nil {
		return nil, err
	}
	if c.AvgReadLen <= 0 {
		return nil, readlen.ErrNoReads
	}
	log.Printf("average read length: %.2f", c.AvgReadLen)

	meta, err := metadata(o)
	if err != nil {
		return nil, err
	}
	mask, err := alignment.ReadMaskFile(o.Mask)
	if err != nil {
		return nil, err
	}

	rdr, closer, err := alignment.Open(o.Alignments)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	g := alignment.NewGrouper(rdr, mask)
	verdicts, missing, err := Verdicts(g, meta, c, o.Batch, warn)
	if err != nil {
		if errors.Cause(err) == alignment.ErrEmptyAlignmentStream {
			return nil, errors.Wrapf(err, "the alignment file %s is empty. Please check the kallisto and samtools version. Please use kallisto 0.43.1 and samtools 1.4 or later", o.Alignments)
		}
		return nil, errors.Wrap(err, o.Alignments)
	}
	log.Printf("Processed %d reads from %s.", g.Records(), o.Alignments)
	if g.Masked() > 0 {
		log.Printf("ignored %d reads overlapping masked regions", g.Masked())
	}
	if g.NoSpan() > 0 {
		log.Printf("%d reads had no sequence or cigar length and only count towards depth", g.NoSpan())
	}

	ab, err := abundance.ReadFile(o.Abundance, o.Layout)
	if err != nil {
		return nil, err
	}

	res := &Result{Records: g.Records(), Criteria: c, Verdicts: verdicts, Missing: missing}
	res.Rows = report.Build(verdicts, ab, meta, c)

	fh, err := xopen.Wopen(o.Out)
	if err != nil {
		return nil, errors.Wrap(err, "filter: opening output")
	}
	if err := report.Write(fh, res.Rows, c.ReportRatio); err != nil {
		fh.Close()
		return nil, errors.Wrap(err, o.Out)
	}
	fh.Flush()
	if err := fh.Close(); err != nil {
		return nil, errors.Wrap(err, o.Out)
	}

	if o.Plot != "" {
		if err := report.Plot(o.Plot, verdicts); err != nil {
			return res, err
		}
	}
	logSummary(res)
	return res, nil
}

func logSummary(res *Result) {
	var passed int
	for _, v := range res.Verdicts {
		if v.Passed {
			passed++
		}
	}
	log.Printf("%d of %d references passed the coverage test", passed, len(res.Verdicts))
	if len(res.Rows) == 0 {
		return
	}
	ratios := make([]float64, 0, len(res.Rows))
	for _, r := range res.Rows {
		ratios = append(ratios, res.Verdicts[r.ID].Ratio)
	}
	log.Printf("mean ratio of reported references: %.4f", stat.Mean(ratios, nil))
}
