package renderer

import (
	"github.com/mpreda/folio"
)

// Summary is the data behind the one-page portfolio summary.
type Summary struct {
	Currency  string
	UpdatedAt folio.Date
	Accounts  []folio.Account

	Realized folio.RealizedSummary
	Holdings folio.HoldingsSummary
	Income   []folio.IncomeEntry
}

// SummaryMarkdown renders the one-page portfolio summary.
func SummaryMarkdown(s Summary) string {
	return renderTemplate("summary.md", s)
}
