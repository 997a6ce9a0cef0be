package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mpreda/folio"
	"github.com/mpreda/folio/renderer"
)

// sellsCmd renders the realized-sales analysis.
type sellsCmd struct {
	group string
}

func (*sellsCmd) Name() string     { return "sells" }
func (*sellsCmd) Synopsis() string { return "realized gains and sale timing analysis" }
func (*sellsCmd) Usage() string {
	return `pfr sells [-group symbol|account|year]

  Shows every past sale with its FIFO-matched cost basis, realized gain,
  and a comparison against holding the shares to the present.
`
}

func (c *sellsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "symbol", "Aggregation key of the grouped table (symbol, account, year)")
}

func (c *sellsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key, err := groupKey(c.group)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	_, replay, analyzer, err := analyzed(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	reviews := analyzer.ReviewSales(ctx, replay.Sales())
	md := renderer.SellsMarkdown(reviews, analyzer.Summarize(reviews), analyzer.SummarizeBy(reviews, key))
	printMarkdown(md)
	return subcommands.ExitSuccess
}

func groupKey(name string) (folio.GroupKey, error) {
	switch name {
	case "symbol":
		return folio.ByReviewSymbol, nil
	case "account":
		return folio.ByReviewAccount, nil
	case "year":
		return folio.ByReviewYear, nil
	default:
		return nil, fmt.Errorf("unknown group key %q, want symbol, account, or year", name)
	}
}
