package renderer

import (
	"fmt"
	"strings"

	"github.com/mpreda/folio"
)

// WatchQuote is a watchlist symbol with its fetched quote, or the status
// explaining why there is none.
type WatchQuote struct {
	Symbol string
	Quote  folio.Quote
	Status folio.Status
}

// HoldingsMarkdown renders the open-positions report: every still-open
// position priced at its current quote, grouped per account, with the
// account cash balances and the watchlist quotes.
func HoldingsMarkdown(s folio.HoldingsSummary, accounts []folio.Account, watch []WatchQuote) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Holdings (%s)\n\n", s.Currency)

	byAccount := make(map[string][]folio.PositionValue)
	var order []string
	for _, v := range s.Positions {
		if _, ok := byAccount[v.Account]; !ok {
			order = append(order, v.Account)
		}
		byAccount[v.Account] = append(byAccount[v.Account], v)
	}

	for _, account := range order {
		fmt.Fprintf(&b, "## %s\n\n", account)
		writePositions(&b, byAccount[account])
		for _, a := range accounts {
			if a.Name == account && !a.Cash.IsZero() {
				fmt.Fprintf(&b, "Cash: %s\n\n", a.Cash)
			}
		}
	}

	fmt.Fprint(&b, "## All Accounts\n\n")
	writePositions(&b, s.Positions)
	fmt.Fprintf(&b, "- Market value: %s", s.MarketValue)
	if s.Excluded > 0 {
		fmt.Fprintf(&b, " (%d positions excluded, price unavailable)", s.Excluded)
	}
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "- Cost basis: %s\n", s.CostBasis)
	fmt.Fprintf(&b, "- Unrealized gain: %s (%s)\n\n", s.UnrealizedGain.SignedString(), s.GainPct.SignedString())

	if len(watch) > 0 {
		fmt.Fprint(&b, "## Watchlist\n\n")
		fmt.Fprintln(&b, "| Symbol | Price |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, w := range watch {
			fmt.Fprintf(&b, "| %s | %s |\n", w.Symbol, money(w.Quote.Price, w.Status))
		}
	}

	return b.String()
}

func writePositions(b *strings.Builder, positions []folio.PositionValue) {
	if len(positions) == 0 {
		fmt.Fprintln(b, "No open positions.")
		fmt.Fprintln(b)
		return
	}
	fmt.Fprintln(b, "| Symbol | Name | Shares | Avg Cost | Price | Market Value | Cost Basis | Unrealized | Gain % |")
	fmt.Fprintln(b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|")
	for _, v := range positions {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			v.Symbol,
			v.Name,
			v.Shares,
			avgCost(v.OpenPosition),
			money(v.Quote.Price, v.Status),
			money(v.MarketValue, v.Status),
			money(v.CostBasis, v.Status),
			signed(v.UnrealizedGain, v.Status),
			signedPct(v.GainPct, v.Status),
		)
	}
	fmt.Fprintln(b)
}

// avgCost renders the native-currency average cost, which only exists for a
// single-currency position.
func avgCost(p folio.OpenPosition) string {
	if p.MixedCurrency {
		return "mixed"
	}
	return p.AvgCost.String()
}
