package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mpreda/folio/renderer"
)

// exportCmd writes the realized-sales analysis as CSV for spreadsheets.
type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the sales analysis as CSV" }
func (*exportCmd) Usage() string {
	return `pfr export [-o <file>]

  Writes one CSV row per sale with proceeds, FIFO cost basis, realized
  gain and the hold-to-today comparison. Defaults to stdout.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file (default stdout)")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, replay, analyzer, err := analyzed(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	reviews := analyzer.ReviewSales(ctx, replay.Sales())

	w := os.Stdout
	if c.output != "" {
		f, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot create %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer f.Close()
		w = f
	}

	if err := renderer.WriteSellsCSV(w, reviews); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot write CSV: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
