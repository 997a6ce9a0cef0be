package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mpreda/folio/renderer"
)

type incomeCmd struct{}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "dividend income per account and symbol" }
func (*incomeCmd) Usage() string {
	return `pfr income

  Shows cumulated dividend cash per account and symbol, with the number
  and date of payments.
`
}

func (*incomeCmd) SetFlags(_ *flag.FlagSet) {}

func (c *incomeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, replay, _, err := analyzed(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.IncomeMarkdown(replay.Income()))
	return subcommands.ExitSuccess
}
