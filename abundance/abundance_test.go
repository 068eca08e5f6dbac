package abundance

import (
	"reflect"
	"strings"
	"testing"
)

const kallisto = `target_id	length	eff_length	est_counts	tpm
v1	1000	801	120	10.5
v2	5000	4801	0	0
v3	2000	1801	33.5	2.1
`

const salmon = `Name	Length	EffectiveLength	TPM	NumReads
v1	1000	801.000	10.5	12
v2	5000	4801.000	0.0	0.000
v3	2000	1801.000	2.1	44.25
`

func TestKallisto(t *testing.T) {
	tbl, err := Read(strings.NewReader(kallisto), Kallisto)
	if err != nil {
		t.Fatal(err)
	}
	exp := []Estimate{{"v1", 120}, {"v3", 33.5}}
	if !reflect.DeepEqual(tbl.Estimates, exp) {
		t.Errorf("expected: %v, got: %v", exp, tbl.Estimates)
	}
	if tbl.Get("v2") != 0 || tbl.Get("v3") != 33.5 {
		t.Errorf("unexpected lookups: %v %v", tbl.Get("v2"), tbl.Get("v3"))
	}
}

func TestSalmon(t *testing.T) {
	tbl, err := Read(strings.NewReader(salmon), Salmon)
	if err != nil {
		t.Fatal(err)
	}
	exp := []Estimate{{"v1", 12}, {"v3", 44.25}}
	if !reflect.DeepEqual(tbl.Estimates, exp) {
		t.Errorf("expected: %v, got: %v", exp, tbl.Estimates)
	}
}

func TestRepeatedID(t *testing.T) {
	tbl, err := Read(strings.NewReader("h\na\t0\t0\t5\nb\t0\t0\t6\na\t0\t0\t7\n"), Kallisto)
	if err != nil {
		t.Fatal(err)
	}
	exp := []Estimate{{"a", 7}, {"b", 6}}
	if !reflect.DeepEqual(tbl.Estimates, exp) {
		t.Errorf("expected: %v, got: %v", exp, tbl.Estimates)
	}
}

func TestBadRows(t *testing.T) {
	for _, bad := range []string{"h\nv1\t1\t2\n", "h\nv1\t1\t2\tx\n", "h\nv1\t1\t2\t-1\n", "h\nv1\t1\t2\tnan\n", "h\nv1\t1\t2\tinf\n", "h\nv1\t1\t2\t-Inf\n"} {
		if _, err := Read(strings.NewReader(bad), Kallisto); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
