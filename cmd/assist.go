package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/mpreda/folio"
	"github.com/mpreda/folio/agent"
	"github.com/mpreda/folio/renderer"
	"google.golang.org/genai"
)

// assistCmd starts the interactive AI session over the portfolio reports.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with the AI assistant about the portfolio" }
func (*assistCmd) Usage() string {
	return `pfr assist [<initial question>]

  Starts an interactive session. The assistant can read every pfr
  report and search the web for market context. Requires GEMINI_API_KEY.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	a := agent.New(os.Stdout, os.Stdin, agent.NewTrader(), agent.NewAnalyst(cmdReports{}))
	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// cmdReports serves the pfr reports to the analyst expert. Each call runs
// the pipeline anew so the assistant always sees the file as saved.
type cmdReports struct{}

func (cmdReports) Sells(ctx context.Context) (string, error) {
	_, replay, analyzer, err := analyzed(ctx)
	if err != nil {
		return "", err
	}
	reviews := analyzer.ReviewSales(ctx, replay.Sales())
	return renderer.SellsMarkdown(reviews, analyzer.Summarize(reviews), analyzer.SummarizeBy(reviews, folio.ByReviewSymbol)), nil
}

func (cmdReports) Holdings(ctx context.Context) (string, error) {
	ledger, replay, analyzer, err := analyzed(ctx)
	if err != nil {
		return "", err
	}
	summary := analyzer.UnrealizedSummary(ctx, replay.Positions())
	return renderer.HoldingsMarkdown(summary, ledger.Accounts(), watchQuotes(ctx, ledger, analyzer.Quotes())), nil
}

func (cmdReports) Income(ctx context.Context) (string, error) {
	_, replay, _, err := analyzed(ctx)
	if err != nil {
		return "", err
	}
	return renderer.IncomeMarkdown(replay.Income()), nil
}

func (cmdReports) Summary(ctx context.Context) (string, error) {
	return summaryMarkdown(ctx)
}
