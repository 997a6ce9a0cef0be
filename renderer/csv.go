package renderer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mpreda/folio"
)

// sellsHeader is the column set of the sells CSV export.
var sellsHeader = []string{
	"sell_date", "account", "symbol", "shares_sold", "price", "fee",
	"proceeds", "cost_basis", "realized_gain", "realized_gain_pct",
	"current_price", "hypothetical_gain", "opportunity_delta", "verdict",
	"status",
}

// WriteSellsCSV exports the sells analysis as CSV, one row per sale. Numeric
// cells hold plain decimal values without currency symbols, degraded cells
// are left empty and the status column says why.
func WriteSellsCSV(w io.Writer, reviews []folio.SellReview) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sellsHeader); err != nil {
		return fmt.Errorf("cannot write csv header: %w", err)
	}
	for _, r := range reviews {
		sale, opp := r.SaleEvent.Status, r.Opportunity.Status
		row := []string{
			r.SellDate.String(),
			r.Account,
			r.Symbol,
			r.SharesSold.String(),
			csvAmount(r.Price, folio.StatusOK),
			csvAmount(r.Fee, folio.StatusOK),
			csvAmount(r.Proceeds, sale),
			csvAmount(r.SaleEvent.CostBasis, sale),
			csvAmount(r.RealizedGain, sale),
			csvPct(r.RealizedGainPct, sale),
			csvAmount(r.CurrentPrice, opp),
			csvAmount(r.HypotheticalGain, opp),
			csvAmount(r.Delta, opp),
			csvVerdict(r),
			string(r.Status()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cannot write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvAmount(m folio.Money, status folio.Status) string {
	if status != folio.StatusOK {
		return ""
	}
	return fmt.Sprintf("%.2f", m.AsFloat())
}

func csvPct(p folio.Percent, status folio.Status) string {
	if status != folio.StatusOK {
		return ""
	}
	return fmt.Sprintf("%.2f", float64(p))
}

func csvVerdict(r folio.SellReview) string {
	if r.Opportunity.Status != folio.StatusOK {
		return ""
	}
	return string(r.Verdict)
}
