package renderer

import (
	"fmt"
	"strings"

	"github.com/mpreda/folio"
)

// IncomeMarkdown renders the dividend income ledger per account and symbol.
// Amounts stay in their payment currency: dividend income is cash received,
// not a cross-currency comparison.
func IncomeMarkdown(entries []folio.IncomeEntry) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Dividend Income\n\n")
	if len(entries) == 0 {
		fmt.Fprintln(&b, "No dividend transactions in the ledger.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Account | Symbol | Name | Payments | Last Payment | Total |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|:---|---:|")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s |\n",
			e.Account, e.Symbol, e.Name, e.Payments, e.LastPayment, e.Cash)
	}
	return b.String()
}
