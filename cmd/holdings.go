package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mpreda/folio/renderer"
)

// holdingsCmd renders the open positions valued at current quotes.
type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "open positions with unrealized gains" }
func (*holdingsCmd) Usage() string {
	return `pfr holdings

  Shows the remaining FIFO lots per account and symbol, valued at the
  latest market quote, alongside the watchlist quotes.
`
}

func (*holdingsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *holdingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, replay, analyzer, err := analyzed(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	summary := analyzer.UnrealizedSummary(ctx, replay.Positions())
	watch := watchQuotes(ctx, ledger, analyzer.Quotes())
	printMarkdown(renderer.HoldingsMarkdown(summary, ledger.Accounts(), watch))
	return subcommands.ExitSuccess
}
