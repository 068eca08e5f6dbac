package filter

import (
	"fmt"
	"os"
	"runtime"

	arg "github.com/alexflint/go-arg"
	"github.com/brentp/covratio/abundance"
	"github.com/brentp/covratio/coverage"
	"github.com/fatih/color"
)

type cliargs struct {
	Ratio       float64 `arg:"--ratio-criteria" help:"minimum ratio of observed to predicted genome coverage"`
	Coverage    float64 `arg:"--coverage-criteria" help:"minimum fraction of the genome covered by reads"`
	MinReads    int     `arg:"--reads-criteria" help:"minimum estimated number of reads for a reference to be reported"`
	ReportRatio bool    `arg:"--report-ratio" help:"add support and predicted support and ratio columns to the report"`
	ReadLength  float64 `arg:"-l,--read-length" help:"average read length. measured from --reads or sampled from the alignments if not given"`
	Reads       string  `arg:"-r,--reads" help:"fastq(.gz) of the sequenced reads used to measure the average read length"`
	List        string  `arg:"--list" help:"reference list: id<TAB>length or id<TAB>name<TAB>lineage<TAB>length"`
	DB          string  `arg:"--db" help:"reference fasta database used for genome lengths when --list is not given"`
	Abundance   string  `arg:"-a,--abundance,required" help:"kallisto abundance.tsv or salmon quant.sf"`
	Salmon      bool    `arg:"--salmon" help:"the abundance table is salmon quant.sf"`
	Mask        string  `arg:"-m,--mask" help:"optional bed of regions whose reads are ignored"`
	Out         string  `arg:"-o,--out" help:"path of the report"`
	Plot        string  `arg:"--plot" help:"optional path of a support vs predicted support plot (.png .svg .pdf)"`
	Processes   int     `arg:"-p,--processes" help:"number of processors to use"`
	Batch       int     `arg:"--batch" help:"number of references evaluated together"`
	Alignments  string  `arg:"positional,required" help:"sam(.gz) or bam of reads mapped to the references, sorted by reference. '-' for stdin"`
}

func (cliargs) Description() string {
	return "report the references whose genome coverage is consistent with their presence in the sample"
}

func pcheck(e error) {
	if e != nil {
		c := color.New(color.FgRed).Add(color.Bold)
		fmt.Fprintf(os.Stderr, "%s\n", c.SprintFunc()(fmt.Sprintf("ERROR: %s", e)))
		os.Exit(1)
	}
}

// Main is called from the dispatcher
func Main() {
	cli := cliargs{
		Ratio:     coverage.DefaultRatio,
		Coverage:  coverage.DefaultCoverage,
		MinReads:  coverage.DefaultMinReads,
		Out:       "covratio-final-sorted-abundance.tsv",
		Processes: runtime.NumCPU(),
		Batch:     DefaultBatch,
	}
	p := arg.MustParse(&cli)
	if cli.List == "" && cli.DB == "" {
		p.Fail("one of --list or --db is required")
	}
	runtime.GOMAXPROCS(cli.Processes)

	o := Options{
		Alignments: cli.Alignments,
		List:       cli.List,
		DB:         cli.DB,
		Abundance:  cli.Abundance,
		Layout:     abundance.Kallisto,
		Reads:      cli.Reads,
		Mask:       cli.Mask,
		Out:        cli.Out,
		Plot:       cli.Plot,
		Batch:      cli.Batch,
		Criteria: coverage.Criteria{
			Ratio:       cli.Ratio,
			Coverage:    cli.Coverage,
			MinReads:    cli.MinReads,
			ReportRatio: cli.ReportRatio,
			AvgReadLen:  cli.ReadLength,
		},
	}
	if cli.Salmon {
		o.Layout = abundance.Salmon
	}

	res, err := Run(o)
	pcheck(err)
	if len(res.Rows) == 0 {
		fmt.Fprintln(os.Stderr, "None of the viruses passed all the 3 filtering criteria. "+
			"To get some output, you can relax the filtering criteria or you can "+
			"change the database to better fit this sample.")
	} else {
		fmt.Fprintf(os.Stderr, "reported %d viruses/genomes in the output file %s\n", len(res.Rows), cli.Out)
	}
}
