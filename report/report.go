// Package report joins coverage verdicts with abundance estimates and lineages and writes the
// final table of references judged present in the sample.
package report

import (
	"bufio"
	"io"
	"sort"
	"strconv"

	"github.com/brentp/covratio/abundance"
	"github.com/brentp/covratio/coverage"
	"github.com/brentp/covratio/refmeta"
	"github.com/pkg/errors"
)

const (
	header      = "#VirusIdentifier\tVirusName\tkingdom;phylum;class;order;family;genus;species\tEstimatedAbundance"
	ratioHeader = "\tSupport\tPredictedSupport\tRatio"
)

// Row is a reference that passed every filter.
type Row struct {
	ID        string
	Lineage   string
	Abundance float64
	// Coverage is set only when the criteria ask for ratio columns.
	Coverage *coverage.Verdict
}

// Build returns, sorted by abundance (highest first, ties in table order), the references with a
// non-zero estimate that passed the coverage test and whose estimate is at least c.MinReads.
func Build(verdicts map[string]coverage.Verdict, ab *abundance.Table, meta refmeta.Table, c coverage.Criteria) []Row {
	rows := make([]Row, 0, 16)
	for _, e := range ab.Estimates {
		if e.Count == 0 || e.Count < float64(c.MinReads) {
			continue
		}
		v, ok := verdicts[e.ID]
		if !ok || !v.Passed {
			continue
		}
		row := Row{ID: e.ID, Lineage: meta.Lineage(e.ID), Abundance: e.Count}
		if c.ReportRatio {
			v := v
			row.Coverage = &v
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Abundance > rows[j].Abundance })
	return rows
}

func ffmt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Write writes the header and rows as tab-separated text. The ratio columns are written when
// reportRatio is set, in which case every row must carry its Coverage.
func Write(w io.Writer, rows []Row, reportRatio bool) error {
	if reportRatio {
		for _, r := range rows {
			if r.Coverage == nil {
				return errors.Errorf("report: no coverage for %s to fill the ratio columns", r.ID)
			}
		}
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(header)
	if reportRatio {
		bw.WriteString(ratioHeader)
	}
	bw.WriteByte('\n')
	for _, r := range rows {
		bw.WriteString(r.ID)
		bw.WriteByte('\t')
		bw.WriteString(r.Lineage)
		bw.WriteByte('\t')
		bw.WriteString(ffmt(r.Abundance))
		if reportRatio {
			bw.WriteByte('\t')
			bw.WriteString(ffmt(r.Coverage.Support))
			bw.WriteByte('\t')
			bw.WriteString(ffmt(r.Coverage.PredictedSupport))
			bw.WriteByte('\t')
			bw.WriteString(strconv.FormatFloat(r.Coverage.Ratio, 'f', 4, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
