package renderer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/mpreda/folio"
)

// mapQuotes serves quotes from a fixed map, for offline rendering tests.
type mapQuotes map[string]float64

func (m mapQuotes) Quote(_ context.Context, symbol string) (folio.Quote, error) {
	price, ok := m[symbol]
	if !ok {
		return folio.Quote{}, fmt.Errorf("%s: %w", symbol, folio.ErrQuoteUnavailable)
	}
	return folio.Quote{Symbol: symbol, Price: folio.M(price, "USD"), At: folio.Today()}, nil
}

func buy(date, account, symbol string, shares, price float64) folio.Transaction {
	return folio.NewTransaction(folio.MustParse(date), folio.Buy, account, symbol,
		folio.Q(shares), folio.M(price, "USD"), folio.M(0, "USD"))
}

func sell(date, account, symbol string, shares, price, fee float64) folio.Transaction {
	return folio.NewTransaction(folio.MustParse(date), folio.Sell, account, symbol,
		folio.Q(shares), folio.M(price, "USD"), folio.M(fee, "USD"))
}

// fixture replays a small two-symbol ledger and analyzes it against quotes
// where POWL is priced and DARK is not.
func fixture(t *testing.T) ([]folio.SellReview, folio.RealizedSummary, []folio.GroupSummary, folio.HoldingsSummary, *folio.Replay) {
	t.Helper()
	ledger := folio.NewLedger()
	ledger.AddAccount(folio.Account{Name: "Broker A", Currency: "USD", Cash: folio.M(1250.55, "USD")})
	ledger.Append(
		buy("2025-03-03", "Broker A", "POWL", 5, 161.72),
		buy("2025-04-01", "Broker A", "POWL", 5, 170),
		sell("2025-05-01", "Broker A", "POWL", 7, 180, 5),
		buy("2025-01-01", "Broker A", "DARK", 10, 50),
		sell("2025-02-01", "Broker A", "DARK", 5, 60, 0),
	)
	replay, err := ledger.Replay(context.Background(), nil, "USD")
	if err != nil {
		t.Fatal(err)
	}
	a := folio.NewAnalyzer(folio.NewQuoteBook(mapQuotes{"POWL": 200}), nil, "USD")
	reviews := a.ReviewSales(context.Background(), replay.Sales())
	return reviews, a.Summarize(reviews), a.SummarizeBy(reviews, folio.ByReviewSymbol),
		a.UnrealizedSummary(context.Background(), replay.Positions()), replay
}

func TestSellsMarkdown(t *testing.T) {
	reviews, summary, bySymbol, _, _ := fixture(t)
	md := SellsMarkdown(reviews, summary, bySymbol)

	for _, want := range []string{
		"# Sell Transaction Analysis (USD)",
		"| 2025-05-01 | Broker A | POWL | 7 |",
		"+$106.40",              // POWL realized gain
		string(folio.SoldTooEarly), // quote 200 beats the 180 sale
		"n/a (quote unavailable)", // DARK has no quote for the opportunity side
		"## Per Symbol",
		"| DARK | 1 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report does not contain %q:\n%s", want, md)
		}
	}
}

func TestSellsMarkdown_Empty(t *testing.T) {
	md := SellsMarkdown(nil, folio.RealizedSummary{Currency: "USD"}, nil)
	if !strings.Contains(md, "No sell transactions") {
		t.Errorf("empty report misses the placeholder:\n%s", md)
	}
}

func TestHoldingsMarkdown(t *testing.T) {
	_, _, _, holdings, _ := fixture(t)
	accounts := []folio.Account{{Name: "Broker A", Currency: "USD", Cash: folio.M(1250.55, "USD")}}
	watch := []WatchQuote{
		{Symbol: "ASML", Status: folio.StatusPriceUnavailable},
	}
	md := HoldingsMarkdown(holdings, accounts, watch)

	for _, want := range []string{
		"# Holdings (USD)",
		"## Broker A",
		"| POWL |",
		"n/a (price unavailable)", // DARK row kept, tagged, not dropped
		"| DARK |",
		"Cash: $1,250.55",
		"## Watchlist",
		"| ASML | n/a (price unavailable) |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report does not contain %q:\n%s", want, md)
		}
	}
	// the unquoted DARK position must not leak into the totals:
	// 3 POWL shares at 200 = 600 market value
	if !strings.Contains(md, "Market value: $600.00 (1 positions excluded") {
		t.Errorf("totals do not match the quoted positions only:\n%s", md)
	}
}

func TestIncomeMarkdown(t *testing.T) {
	entries := []folio.IncomeEntry{
		{Account: "Broker A", Symbol: "POWL", Payments: 2,
			LastPayment: folio.MustParse("2025-06-01"), Cash: folio.M(4.80, "USD")},
	}
	md := IncomeMarkdown(entries)
	if !strings.Contains(md, "| Broker A | POWL |") || !strings.Contains(md, "$4.80") {
		t.Errorf("income report misses the entry:\n%s", md)
	}
	if empty := IncomeMarkdown(nil); !strings.Contains(empty, "No dividend transactions") {
		t.Errorf("empty income report misses the placeholder:\n%s", empty)
	}
}

func TestSummaryMarkdown(t *testing.T) {
	_, realized, _, holdings, replay := fixture(t)
	md := SummaryMarkdown(Summary{
		Currency: "USD",
		Accounts: []folio.Account{{Name: "Broker A", Currency: "USD", Cash: folio.M(1250.55, "USD")}},
		Realized: realized,
		Holdings: holdings,
		Income:   replay.Income(),
	})
	for _, want := range []string{
		"# Portfolio Summary (USD)",
		"- Broker A (USD, cash $1,250.55)",
		"Market value: $600.00",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("summary does not contain %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "error") {
		t.Errorf("template error leaked into the output:\n%s", md)
	}
}

func TestWriteSellsCSV(t *testing.T) {
	reviews, _, _, _, _ := fixture(t)
	var buf bytes.Buffer
	if err := WriteSellsCSV(&buf, reviews); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid csv: %v", err)
	}
	if len(records) != 3 { // header + 2 sales
		t.Fatalf("got %d records, want 3", len(records))
	}
	if len(records[0]) != len(sellsHeader) {
		t.Errorf("got %d columns, want %d", len(records[0]), len(sellsHeader))
	}

	// rows come in replay order: DARK sold in February, POWL in May
	dark, powl := records[1], records[2]
	if dark[2] != "DARK" || powl[2] != "POWL" {
		t.Fatalf("got symbols %q, %q; want DARK, POWL", dark[2], powl[2])
	}
	if powl[8] != "106.40" {
		t.Errorf("got realized gain %q, want 106.40", powl[8])
	}
	// DARK's opportunity cells are empty, its status says why
	if dark[10] != "" || dark[13] != "" {
		t.Errorf("degraded cells are not empty: %q, %q", dark[10], dark[13])
	}
	if dark[14] != string(folio.StatusQuoteUnavailable) {
		t.Errorf("got status %q, want quote unavailable", dark[14])
	}
}
