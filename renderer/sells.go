package renderer

import (
	"fmt"
	"strings"

	"github.com/mpreda/folio"
)

// SellsMarkdown renders the realized-sales report: one row per sale with its
// FIFO-matched cost basis and opportunity comparison, a summary block, and a
// per-symbol aggregation table.
func SellsMarkdown(reviews []folio.SellReview, summary folio.RealizedSummary, bySymbol []folio.GroupSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Sell Transaction Analysis (%s)\n\n", summary.Currency)

	if len(reviews) == 0 {
		fmt.Fprintln(&b, "No sell transactions in the ledger.")
		return b.String()
	}

	fmt.Fprint(&b, "## Sales\n\n")
	fmt.Fprintln(&b, "| Date | Account | Symbol | Shares | Price | Fee | Proceeds | Cost Basis | Realized | Gain % | Now | If Held | Delta | Verdict |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|:---|")
	for _, r := range reviews {
		sale, opp := r.SaleEvent.Status, r.Opportunity.Status
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.SellDate,
			r.Account,
			r.Symbol,
			r.SharesSold,
			r.Price,
			r.Fee,
			money(r.Proceeds, sale),
			money(r.SaleEvent.CostBasis, sale),
			signed(r.RealizedGain, sale),
			signedPct(r.RealizedGainPct, sale),
			money(r.CurrentPrice, opp),
			signed(r.HypotheticalGain, opp),
			signed(r.Delta, opp),
			verdict(r),
		)
	}
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Summary\n\n")
	writeSummary(&b, summary)

	fmt.Fprint(&b, "## Per Symbol\n\n")
	fmt.Fprintln(&b, "| Symbol | Sales | Shares | Proceeds | Cost Basis | Realized | Gain % |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, g := range bySymbol {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s |\n",
			g.Key,
			g.Sales,
			g.SharesSold,
			g.Proceeds,
			g.CostBasis,
			g.RealizedGain.SignedString(),
			g.GainPct.SignedString(),
		)
	}

	return b.String()
}

func verdict(r folio.SellReview) string {
	if r.Opportunity.Status != folio.StatusOK {
		return na(r.Status())
	}
	return string(r.Verdict)
}

func writeSummary(b *strings.Builder, s folio.RealizedSummary) {
	fmt.Fprintf(b, "- Sales: %d", s.Sales)
	if s.Excluded > 0 {
		fmt.Fprintf(b, " (%d excluded, figures unavailable)", s.Excluded)
	}
	fmt.Fprintln(b)
	fmt.Fprintf(b, "- Shares sold: %s\n", s.SharesSold)
	fmt.Fprintf(b, "- Proceeds: %s\n", s.Proceeds)
	fmt.Fprintf(b, "- Cost basis: %s\n", s.CostBasis)
	fmt.Fprintf(b, "- Realized gain: %s (%s)\n", s.RealizedGain.SignedString(), s.GainPct.SignedString())
	fmt.Fprintf(b, "- Average gain per sale: %s\n", s.AvgGainPct.SignedString())
	if s.Best != nil {
		fmt.Fprintf(b, "- Best sale: %s on %s (%s)\n", s.Best.Symbol, s.Best.SellDate, s.Best.RealizedGainPct.SignedString())
	}
	if s.Worst != nil {
		fmt.Fprintf(b, "- Worst sale: %s on %s (%s)\n", s.Worst.Symbol, s.Worst.SellDate, s.Worst.RealizedGainPct.SignedString())
	}
	fmt.Fprintf(b, "- Timing: %d sold too early, %d at a good time, %d too late\n", s.TooEarly, s.GoodTime, s.TooLate)
	fmt.Fprintln(b)
}
