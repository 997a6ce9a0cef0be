package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mpreda/folio/renderer"
)

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "one-page portfolio overview" }
func (*summaryCmd) Usage() string {
	return `pfr summary

  Condenses realized gains, current holdings, and dividend income into
  a single page.
`
}

func (*summaryCmd) SetFlags(_ *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	md, err := summaryMarkdown(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// summaryMarkdown runs the whole pipeline once and renders the overview.
// Shared with the assistant, which serves the same report as a tool.
func summaryMarkdown(ctx context.Context) (string, error) {
	ledger, replay, analyzer, err := analyzed(ctx)
	if err != nil {
		return "", err
	}
	reviews := analyzer.ReviewSales(ctx, replay.Sales())
	return renderer.SummaryMarkdown(renderer.Summary{
		Currency:  analyzer.ReportingCurrency(),
		UpdatedAt: ledger.UpdatedAt(),
		Accounts:  ledger.Accounts(),
		Realized:  analyzer.Summarize(reviews),
		Holdings:  analyzer.UnrealizedSummary(ctx, replay.Positions()),
		Income:    replay.Income(),
	}), nil
}
