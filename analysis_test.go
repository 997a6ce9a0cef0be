package folio

import (
	"context"
	"testing"
)

// replayPOWL is the shared fixture: the reference scenario replayed in USD.
func replayPOWL(t *testing.T) *Replay {
	t.Helper()
	ledger := ledgerOf(
		tx("2025-03-03", Buy, "main", "POWL", 5, 161.72, 0, "USD"),
		tx("2025-04-01", Buy, "main", "POWL", 5, 170.00, 0, "USD"),
		tx("2025-05-01", Sell, "main", "POWL", 7, 180.00, 5, "USD"),
	)
	r, err := ledger.Replay(context.Background(), nil, "USD")
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func quoteOf(symbol string, price float64, currency string) Quote {
	return Quote{Symbol: symbol, Price: M(price, currency), At: Today()}
}

func TestOpportunityCost_Verdicts(t *testing.T) {
	testCases := []struct {
		name         string
		currentPrice float64
		hypothetical float64 // 7*price - 5 - 1148.6
		delta        float64 // hypothetical - 106.4 realized
		verdict      Verdict
	}{
		{"price kept climbing", 200, 246.4, 140, SoldTooEarly},
		{"price fell after the sale", 150, -103.6, -210, SoldTooLate},
		{"price unchanged", 180, 106.4, 0, SoldAtGoodTime},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := replayPOWL(t)
			quotes := NewQuoteBook(&fakeQuotes{prices: map[string]Quote{
				"POWL": quoteOf("POWL", tc.currentPrice, "USD"),
			}})
			a := NewAnalyzer(quotes, nil, "USD")

			o := a.OpportunityCost(context.Background(), r.Sales()[0])
			if o.Status != StatusOK {
				t.Fatalf("got status %q, want ok", o.Status)
			}
			if o.Verdict != tc.verdict {
				t.Errorf("got verdict %q, want %q", o.Verdict, tc.verdict)
			}
			if want := M(tc.hypothetical, "USD"); !o.HypotheticalGain.Equal(want) {
				t.Errorf("got hypothetical gain %s, want %s", o.HypotheticalGain, want)
			}
			if want := M(tc.delta, "USD"); !o.Delta.Equal(want) {
				t.Errorf("got delta %s, want %s", o.Delta, want)
			}
		})
	}
}

func TestOpportunityCost_QuoteUnavailable(t *testing.T) {
	r := replayPOWL(t)
	a := NewAnalyzer(NewQuoteBook(&fakeQuotes{}), nil, "USD")

	o := a.OpportunityCost(context.Background(), r.Sales()[0])
	if o.Status != StatusQuoteUnavailable {
		t.Fatalf("got status %q, want quote unavailable", o.Status)
	}
}

func TestSummarize(t *testing.T) {
	ledger := ledgerOf(
		tx("2025-01-01", Buy, "main", "AAPL", 10, 100, 0, "USD"),
		tx("2025-01-01", Buy, "main", "MSFT", 10, 200, 0, "USD"),
		tx("2025-06-01", Sell, "main", "AAPL", 10, 120, 0, "USD"), // gain 200, +20%
		tx("2025-06-01", Sell, "main", "MSFT", 10, 190, 0, "USD"), // gain -100, -5%
	)
	r, err := ledger.Replay(context.Background(), nil, "USD")
	if err != nil {
		t.Fatal(err)
	}
	quotes := NewQuoteBook(&fakeQuotes{prices: map[string]Quote{
		"AAPL": quoteOf("AAPL", 150, "USD"), // kept climbing
		"MSFT": quoteOf("MSFT", 180, "USD"), // kept falling
	}})
	a := NewAnalyzer(quotes, nil, "USD")
	reviews := a.ReviewSales(context.Background(), r.Sales())
	s := a.Summarize(reviews)

	if s.Sales != 2 || s.Excluded != 0 {
		t.Fatalf("got %d sales (%d excluded), want 2 (0 excluded)", s.Sales, s.Excluded)
	}
	if want := M(100, "USD"); !s.RealizedGain.Equal(want) {
		t.Errorf("got total gain %s, want %s", s.RealizedGain, want)
	}
	if want := Percent(100.0 * 100 / 3000); !s.GainPct.Equal(want) {
		t.Errorf("got gain pct %s, want %s", s.GainPct, want)
	}
	if want := Percent((20 - 5) / 2.0); !s.AvgGainPct.Equal(want) {
		t.Errorf("got avg gain pct %s, want %s", s.AvgGainPct, want)
	}
	if s.Best == nil || s.Best.Symbol != "AAPL" {
		t.Errorf("best sale: got %+v, want AAPL", s.Best)
	}
	if s.Worst == nil || s.Worst.Symbol != "MSFT" {
		t.Errorf("worst sale: got %+v, want MSFT", s.Worst)
	}
	if s.TooEarly != 1 || s.TooLate != 1 || s.GoodTime != 0 {
		t.Errorf("verdict counts: got %d/%d/%d, want 1 too early, 1 too late", s.TooEarly, s.GoodTime, s.TooLate)
	}
}

func TestSummarizeBy_Symbol(t *testing.T) {
	ledger := ledgerOf(
		tx("2025-01-01", Buy, "main", "AAPL", 10, 100, 0, "USD"),
		tx("2025-01-01", Buy, "main", "MSFT", 10, 200, 0, "USD"),
		tx("2025-06-01", Sell, "main", "AAPL", 5, 120, 0, "USD"),
		tx("2025-07-01", Sell, "main", "AAPL", 5, 130, 0, "USD"),
		tx("2025-06-01", Sell, "main", "MSFT", 10, 190, 0, "USD"),
	)
	r, err := ledger.Replay(context.Background(), nil, "USD")
	if err != nil {
		t.Fatal(err)
	}
	a := NewAnalyzer(nil, nil, "USD")
	reviews := a.ReviewSales(context.Background(), r.Sales())

	groups := a.SummarizeBy(reviews, ByReviewSymbol)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Key != "AAPL" || groups[1].Key != "MSFT" {
		t.Fatalf("got groups %q, %q; want AAPL, MSFT", groups[0].Key, groups[1].Key)
	}
	if want := M(250, "USD"); !groups[0].RealizedGain.Equal(want) {
		t.Errorf("AAPL gain: got %s, want %s", groups[0].RealizedGain, want)
	}
	if groups[0].Sales != 2 || groups[1].Sales != 1 {
		t.Errorf("got %d and %d sales per group, want 2 and 1", groups[0].Sales, groups[1].Sales)
	}
}

func TestUnrealizedSummary(t *testing.T) {
	r := replayPOWL(t)
	quotes := NewQuoteBook(&fakeQuotes{prices: map[string]Quote{
		"POWL": quoteOf("POWL", 190, "USD"),
	}})
	a := NewAnalyzer(quotes, nil, "USD")

	s := a.UnrealizedSummary(context.Background(), r.Positions())
	if len(s.Positions) != 1 || s.Excluded != 0 {
		t.Fatalf("got %d positions (%d excluded), want 1 (0)", len(s.Positions), s.Excluded)
	}
	v := s.Positions[0]
	// 3 shares @170 held, priced 190: gain (190-170)*3 = 60
	if want := M(570, "USD"); !v.MarketValue.Equal(want) {
		t.Errorf("got market value %s, want %s", v.MarketValue, want)
	}
	if want := M(60, "USD"); !v.UnrealizedGain.Equal(want) {
		t.Errorf("got unrealized gain %s, want %s", v.UnrealizedGain, want)
	}
	if !s.UnrealizedGain.Equal(M(60, "USD")) {
		t.Errorf("got total unrealized %s, want $60.00", s.UnrealizedGain)
	}
}

// TestUnrealizedSummary_MissingQuote checks a position without a quote is
// kept, tagged, and excluded from totals.
func TestUnrealizedSummary_MissingQuote(t *testing.T) {
	ledger := ledgerOf(
		tx("2025-01-01", Buy, "main", "AAPL", 10, 100, 0, "USD"),
		tx("2025-01-01", Buy, "main", "DARK", 10, 50, 0, "USD"),
	)
	r, err := ledger.Replay(context.Background(), nil, "USD")
	if err != nil {
		t.Fatal(err)
	}
	quotes := NewQuoteBook(&fakeQuotes{prices: map[string]Quote{
		"AAPL": quoteOf("AAPL", 110, "USD"),
	}})
	a := NewAnalyzer(quotes, nil, "USD")

	s := a.UnrealizedSummary(context.Background(), r.Positions())
	if len(s.Positions) != 2 {
		t.Fatalf("got %d positions, want 2: the unquoted one must not be dropped", len(s.Positions))
	}
	var dark *PositionValue
	for i := range s.Positions {
		if s.Positions[i].Symbol == "DARK" {
			dark = &s.Positions[i]
		}
	}
	if dark == nil {
		t.Fatal("DARK position was silently dropped")
	}
	if dark.Status != StatusPriceUnavailable {
		t.Errorf("got status %q, want price unavailable", dark.Status)
	}
	if s.Excluded != 1 {
		t.Errorf("got %d excluded, want 1", s.Excluded)
	}
	// totals only cover AAPL: (110-100)*10
	if want := M(100, "USD"); !s.UnrealizedGain.Equal(want) {
		t.Errorf("got total unrealized %s, want %s", s.UnrealizedGain, want)
	}
}

// TestUnrealizedSummary_MixedCurrencyPosition converts each lot before
// aggregating, so a position bought in two currencies still totals.
func TestUnrealizedSummary_MixedCurrency(t *testing.T) {
	ledger := ledgerOf(
		tx("2025-01-01", Buy, "main", "ASML", 2, 600, 0, "EUR"),
	)
	r, err := ledger.Replay(context.Background(), NewConverter(&fakeRates{rates: map[string]float64{"EUR/USD": 1.10}}), "USD")
	if err != nil {
		t.Fatal(err)
	}
	quotes := NewQuoteBook(&fakeQuotes{prices: map[string]Quote{
		"ASML": quoteOf("ASML", 650, "EUR"),
	}})
	a := NewAnalyzer(quotes, NewConverter(&fakeRates{rates: map[string]float64{"EUR/USD": 1.10}}), "USD")

	s := a.UnrealizedSummary(context.Background(), r.Positions())
	v := s.Positions[0]
	if v.Status != StatusOK {
		t.Fatalf("got status %q, want ok", v.Status)
	}
	if want := M(1430, "USD"); !v.MarketValue.Equal(want) { // 1300 EUR * 1.10
		t.Errorf("got market value %s, want %s", v.MarketValue, want)
	}
	if want := M(110, "USD"); !v.UnrealizedGain.Equal(want) { // 100 EUR * 1.10
		t.Errorf("got unrealized gain %s, want %s", v.UnrealizedGain, want)
	}
}

func TestUnrealizedSummary_ConversionUnavailable(t *testing.T) {
	ledger := ledgerOf(
		tx("2025-01-01", Buy, "main", "ASML", 2, 600, 0, "EUR"),
	)
	r, err := ledger.Replay(context.Background(), NewConverter(&fakeRates{rates: map[string]float64{"EUR/USD": 1.10}}), "USD")
	if err != nil {
		t.Fatal(err)
	}
	quotes := NewQuoteBook(&fakeQuotes{prices: map[string]Quote{
		"ASML": quoteOf("ASML", 650, "EUR"),
	}})
	// analyzer has no rate for EUR/USD
	a := NewAnalyzer(quotes, NewConverter(&fakeRates{}), "USD")

	s := a.UnrealizedSummary(context.Background(), r.Positions())
	if got := s.Positions[0].Status; got != StatusConversionUnavailable {
		t.Fatalf("got status %q, want conversion unavailable", got)
	}
	if s.Excluded != 1 {
		t.Errorf("got %d excluded, want 1", s.Excluded)
	}
}
