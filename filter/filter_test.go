package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/brentp/covratio/abundance"
	"github.com/brentp/covratio/alignment"
	"github.com/brentp/covratio/coverage"
	"github.com/brentp/covratio/refmeta"
	"github.com/pkg/errors"
)

const samHeader = "@HD\tVN:1.0\tSO:coordinate\n@SQ\tSN:v1\tLN:1000\n@SQ\tSN:v2\tLN:5000\n@SQ\tSN:v3\tLN:800\n"

func samRecords(ref string, starts ...int) string {
	var b strings.Builder
	seq := strings.Repeat("ACGT", 25)
	for i, s := range starts {
		fmt.Fprintf(&b, "%s.%d\t0\t%s\t%d\t255\t100M\t*\t0\t0\t%s\t*\n", ref, i, ref, s, seq)
	}
	return b.String()
}

func sample() string {
	hot := make([]int, 20)
	for i := range hot {
		hot[i] = 2001
	}
	return samHeader +
		samRecords("v1", 1, 101, 201, 301, 401) +
		samRecords("v2", hot...) +
		samRecords("v3", 1, 300)
}

func write(t *testing.T, dir, name, content string) string {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func options(t *testing.T, alignments string) Options {
	dir := t.TempDir()
	return Options{
		Alignments: write(t, dir, "mapped.sam", alignments),
		List:       write(t, dir, "list.txt", "v1\tphage one\tViruses;Phage\t1000\nv2\t5000\n"),
		Abundance: write(t, dir, "abundance.tsv", "target_id\tlength\teff_length\test_counts\ttpm\n"+
			"v1\t1000\t900\t50\t1\nv2\t5000\t4900\t200\t1\nv3\t800\t700\t30\t1\nv4\t10\t1\t0\t0\n"),
		Layout:   abundance.Kallisto,
		Out:      filepath.Join(dir, "out.tsv"),
		Criteria: coverage.Criteria{Ratio: coverage.DefaultRatio, Coverage: coverage.DefaultCoverage, MinReads: coverage.DefaultMinReads, AvgReadLen: 100},
	}
}

func TestRun(t *testing.T) {
	o := options(t, sample())
	o.Criteria.ReportRatio = true
	res, err := Run(o)
	if err != nil {
		t.Fatal(err)
	}
	if res.Records != 27 {
		t.Errorf("expected: 27 records, got: %d", res.Records)
	}
	if !reflect.DeepEqual(res.Missing, []string{"v3"}) {
		t.Errorf("expected v3 to be missing, got: %v", res.Missing)
	}
	if v := res.Verdicts["v2"]; v.Passed || v.Support != 0.02 {
		t.Errorf("expected hot-spot reference to fail, got: %s", v)
	}
	if len(res.Rows) != 1 || res.Rows[0].ID != "v1" {
		t.Fatalf("expected only v1 to be reported, got: %v", res.Rows)
	}

	out, err := os.ReadFile(o.Out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got: %q", lines)
	}
	if !strings.HasPrefix(lines[1], "v1\tphage one\tViruses;Phage\t50\t0.5\t") || !strings.HasSuffix(lines[1], "\t0.7869") {
		t.Errorf("unexpected row: %q", lines[1])
	}
}

func TestRunSampledReadLength(t *testing.T) {
	o := options(t, sample())
	o.Criteria.AvgReadLen = 0
	res, err := Run(o)
	if err != nil {
		t.Fatal(err)
	}
	if res.Criteria.AvgReadLen != 100 {
		t.Errorf("expected: 100, got: %v", res.Criteria.AvgReadLen)
	}
}

func TestRunNoRows(t *testing.T) {
	o := options(t, sample())
	o.Criteria.MinReads = 1000
	res, err := Run(o)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 0 {
		t.Errorf("expected no rows, got: %v", res.Rows)
	}
	out, _ := os.ReadFile(o.Out)
	if strings.Count(string(out), "\n") != 1 {
		t.Errorf("expected only a header, got: %q", out)
	}
}

func TestRunBadCriteria(t *testing.T) {
	o := options(t, sample())
	o.Criteria.Ratio = 3
	res, err := Run(o)
	if err != nil {
		t.Fatal(err)
	}
	if res.Criteria.Ratio != coverage.DefaultRatio {
		t.Errorf("expected: %v, got: %v", coverage.DefaultRatio, res.Criteria.Ratio)
	}
}

func TestRunEmpty(t *testing.T) {
	_, err := Run(options(t, samHeader))
	if errors.Cause(err) != alignment.ErrEmptyAlignmentStream {
		t.Fatalf("expected empty stream error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "kallisto 0.43.1") {
		t.Errorf("expected a hint at the upstream tools, got: %v", err)
	}
}

func TestRunUnsorted(t *testing.T) {
	_, err := Run(options(t, samHeader+samRecords("v1", 1)+samRecords("v2", 1)+samRecords("v1", 500)))
	if errors.Cause(err) != alignment.ErrOrderingViolation {
		t.Fatalf("expected ordering violation, got: %v", err)
	}
}

func TestVerdictsBatches(t *testing.T) {
	meta := refmeta.Table{
		"v1": {ID: "v1", Length: 1000},
		"v2": {ID: "v2", Length: 5000},
		"v3": {ID: "v3", Length: 800},
	}
	c := coverage.DefaultCriteria()
	c.AvgReadLen = 100

	var all []map[string]coverage.Verdict
	for _, batch := range []int{1, 2, 64} {
		r, err := sam.NewReader(strings.NewReader(sample()))
		if err != nil {
			t.Fatal(err)
		}
		v, missing, err := Verdicts(alignment.NewGrouper(r, nil), meta, c, batch, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(v) != 3 || len(missing) != 0 {
			t.Fatalf("batch %d: expected 3 verdicts, got %d (missing %v)", batch, len(v), missing)
		}
		all = append(all, v)
	}
	if !reflect.DeepEqual(all[0], all[1]) || !reflect.DeepEqual(all[0], all[2]) {
		t.Errorf("verdicts depend on batch size: %v", all)
	}
	if v := all[0]["v1"]; !v.Passed || v.CoveredBases != 500 {
		t.Errorf("unexpected verdict for v1: %s", v)
	}
}
