// Package reflist writes the reference list (id, lineage and genome length) of a FASTA
// database, for use with `covratio filter --list`.
package reflist

import (
	"log"

	arg "github.com/alexflint/go-arg"
	"github.com/brentp/covratio/refmeta"
	"github.com/brentp/xopen"
)

type cliargs struct {
	Out   string `arg:"-o,--out" help:"output path. default is stdout"`
	Fasta string `arg:"positional,required" help:"reference fasta(.gz) database"`
}

func pcheck(e error) {
	if e != nil {
		log.Fatal(e)
	}
}

// Main is called from the dispatcher
func Main() {
	cli := cliargs{Out: "-"}
	arg.MustParse(&cli)

	t, ids, err := refmeta.FromFasta(cli.Fasta)
	pcheck(err)

	fh, err := xopen.Wopen(cli.Out)
	pcheck(err)
	defer fh.Close()
	pcheck(refmeta.Write(fh, t, ids))
	fh.Flush()
}
