// Package cmd implements the CLI application rendering portfolio reports.
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

// Register the subcommands. A main package calls Register() and then
// Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&sellsCmd{}, "reports")
	c.Register(&holdingsCmd{}, "reports")
	c.Register(&incomeCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")

	c.Register(&fmtCmd{}, "ledger")
	c.Register(&watchCmd{}, "ledger")

	c.Register(&topicCmd{}, "help")
	c.Register(&assistCmd{}, "help")
}

// As a CLI application the process is short lived, global flags are fine.

var ledgerFile = flag.String("ledger", "portfolio.json", "Path to the portfolio ledger file")
var reportingCurrency = flag.String("currency", "EUR", "Reporting currency for aggregate figures")
var rawOutput = flag.Bool("raw", false, "Print raw markdown instead of rendering for the terminal")

// loadLedger decodes and validates the application's ledger file.
func loadLedger() (*folio.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger %q: %w", *ledgerFile, err)
	}
	defer f.Close()

	ledger, err := folio.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read ledger %q: %w", *ledgerFile, err)
	}
	if err := ledger.Validate(); err != nil {
		return nil, fmt.Errorf("ledger %q is invalid:\n%w", *ledgerFile, err)
	}
	return ledger, nil
}

// marketData wires the live collaborators: Yahoo for quotes, the ECB
// reference rates for conversion, both cached for the run.
func marketData() (*folio.QuoteBook, *folio.Converter) {
	return folio.NewQuoteBook(folio.NewYahooProvider()),
		folio.NewConverter(folio.NewFrankfurterProvider())
}

// analyzed runs the full pipeline: decode, replay, analyze. Every report
// command starts here.
func analyzed(ctx context.Context) (*folio.Ledger, *folio.Replay, *folio.Analyzer, error) {
	ledger, err := loadLedger()
	if err != nil {
		return nil, nil, nil, err
	}
	quotes, converter := marketData()
	replay, err := ledger.Replay(ctx, converter, *reportingCurrency)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot replay ledger %q: %w", *ledgerFile, err)
	}
	return ledger, replay, folio.NewAnalyzer(quotes, converter, *reportingCurrency), nil
}

// watchQuotes fetches the quotes of the watchlist symbols.
func watchQuotes(ctx context.Context, ledger *folio.Ledger, quotes *folio.QuoteBook) []renderer.WatchQuote {
	items := ledger.Watchlist()
	symbols := make([]string, 0, len(items))
	for _, item := range items {
		symbols = append(symbols, item.Symbol)
	}
	quotes.Prefetch(ctx, symbols)

	out := make([]renderer.WatchQuote, 0, len(items))
	for _, item := range items {
		w := renderer.WatchQuote{Symbol: item.Symbol, Status: folio.StatusOK}
		q, err := quotes.Quote(ctx, item.Symbol)
		if err != nil {
			w.Status = folio.StatusPriceUnavailable
		}
		w.Quote = q
		out = append(out, w)
	}
	return out
}
