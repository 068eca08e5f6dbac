package refmeta

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

const list = `NC_001422.1	Enterobacteria phage phiX174	Viruses;Microviridae	5386
 NC_007605.1 	171823

NC_001802.1	Human immunodeficiency virus 1 	 Viruses;Retroviridae	9181
`

func TestRead(t *testing.T) {
	tbl, err := Read(strings.NewReader(list))
	if err != nil {
		t.Fatal(err)
	}
	exp := Table{
		"NC_001422.1": {"NC_001422.1", 5386, "Enterobacteria phage phiX174\tViruses;Microviridae"},
		"NC_007605.1": {"NC_007605.1", 171823, NoLineage},
		"NC_001802.1": {"NC_001802.1", 9181, "Human immunodeficiency virus 1\tViruses;Retroviridae"},
	}
	if !reflect.DeepEqual(tbl, exp) {
		t.Errorf("expected: %v, got: %v", exp, tbl)
	}
	tbl, err = Read(strings.NewReader("v1\t1000\t\nv2\tname\tlineage\t20\t\t\n"))
	if err != nil {
		t.Fatalf("expected trailing tabs to be ignored, got: %v", err)
	}
	if tbl["v1"].Length != 1000 || tbl["v2"].Length != 20 {
		t.Errorf("unexpected table: %v", tbl)
	}
	if l := tbl.Lineage("missing"); l != NoLineage {
		t.Errorf("expected: %q, got: %q", NoLineage, l)
	}
	if _, err := tbl.MustLookup("missing"); errors.Cause(err) != ErrMissingMetadata {
		t.Errorf("expected missing metadata error, got: %v", err)
	}
}

func TestReadErrors(t *testing.T) {
	for _, bad := range []string{
		"v1\t0\n",
		"v1\t-10\n",
		"v1\tabc\n",
		"v1\ta\t100\n",
		"v1\n",
	} {
		if _, err := Read(strings.NewReader(bad)); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestFromFasta(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "db.fa")
	fa := ">v2 some virus\nACGTACGTAC\nGTNN\n>v1\nACGT\n"
	if err := os.WriteFile(p, []byte(fa), 0644); err != nil {
		t.Fatal(err)
	}
	tbl, ids, err := FromFasta(p)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids, []string{"v2", "v1"}) {
		t.Errorf("expected: [v2 v1], got: %v", ids)
	}
	if tbl["v2"].Length != 14 || tbl["v1"].Length != 4 {
		t.Errorf("unexpected lengths: %v", tbl)
	}

	var buf bytes.Buffer
	if err := Write(&buf, tbl, ids); err != nil {
		t.Fatal(err)
	}
	back, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, tbl) {
		t.Errorf("expected: %v, got: %v", tbl, back)
	}
}
