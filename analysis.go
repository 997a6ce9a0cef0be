package folio

import (
	"context"
	"sort"
)

// Verdict qualifies a realized sale against the hypothetical outcome of
// holding the shares to the present.
type Verdict string

const (
	SoldTooEarly   Verdict = "sold too early"   // holding would have gained more
	SoldAtGoodTime Verdict = "sold at good time" // holding would have changed nothing
	SoldTooLate    Verdict = "sold too late"     // holding would have gained less
)

// Opportunity compares one realized sale with holding the same shares to the
// current quote. HypotheticalGain is what the position would be worth sold
// today under the same fee, Delta is hypothetical minus realized: positive
// means the price kept climbing after the sale.
type Opportunity struct {
	CurrentPrice     Money // native quote currency
	QuoteDate        Date
	HypotheticalGain Money // reporting currency
	Delta            Money // reporting currency
	Verdict          Verdict
	Status           Status
}

// SellReview couples a sale event with its opportunity comparison; it is the
// row unit of the sells report.
type SellReview struct {
	SaleEvent
	Opportunity
}

// Status returns the sale's own status when it is degraded, otherwise the
// opportunity side's.
func (r SellReview) Status() Status {
	if r.SaleEvent.Status != StatusOK {
		return r.SaleEvent.Status
	}
	return r.Opportunity.Status
}

// Analyzer computes realized, unrealized, and opportunity-cost figures from
// a replay's output and live market data. All aggregate amounts are
// expressed in one reporting currency; rows whose live data is missing are
// kept with an explicit status and left out of totals indiscriminately.
type Analyzer struct {
	quotes    *QuoteBook
	converter *Converter
	reporting string
}

// NewAnalyzer builds an analyzer over the given market data collaborators.
func NewAnalyzer(quotes *QuoteBook, converter *Converter, reportingCurrency string) *Analyzer {
	if quotes == nil {
		quotes = NewQuoteBook(nil)
	}
	if converter == nil {
		converter = NewConverter(nil)
	}
	return &Analyzer{
		quotes:    quotes,
		converter: converter,
		reporting: reportingCurrency,
	}
}

// ReportingCurrency returns the currency aggregate figures are expressed in.
func (a *Analyzer) ReportingCurrency() string { return a.reporting }

// Quotes returns the quote book the analyzer reads prices from.
func (a *Analyzer) Quotes() *QuoteBook { return a.quotes }

// OpportunityCost compares a realized sale against holding the shares to the
// present: hypothetical gain = shares*currentPrice - fee - cost basis, the
// market leg converted at the quote date. No quote for the symbol yields
// StatusQuoteUnavailable, a sale whose own figures are degraded passes its
// status through; neither case is fatal to the run.
func (a *Analyzer) OpportunityCost(ctx context.Context, e SaleEvent) Opportunity {
	if e.Status != StatusOK {
		return Opportunity{Status: e.Status}
	}
	q, err := a.quotes.Quote(ctx, e.Symbol)
	if err != nil {
		return Opportunity{Status: StatusQuoteUnavailable}
	}
	o := Opportunity{CurrentPrice: q.Price, QuoteDate: q.At}

	market, err := a.converter.Convert(ctx, q.Price.Mul(e.SharesSold), a.reporting, q.At)
	if err != nil {
		o.Status = StatusConversionUnavailable
		return o
	}
	fee, err := a.converter.Convert(ctx, e.Fee, a.reporting, e.SellDate)
	if err != nil {
		o.Status = StatusConversionUnavailable
		return o
	}

	o.HypotheticalGain = market.Sub(fee).Sub(e.CostBasis)
	o.Delta = o.HypotheticalGain.Sub(e.RealizedGain)
	o.Status = StatusOK
	switch {
	case o.Delta.IsPositive():
		o.Verdict = SoldTooEarly
	case o.Delta.IsNegative():
		o.Verdict = SoldTooLate
	default:
		o.Verdict = SoldAtGoodTime
	}
	return o
}

// ReviewSales attaches an opportunity comparison to every sale event, in
// order. Quotes are prefetched concurrently first so the reviews themselves
// compute synchronously on memoized data.
func (a *Analyzer) ReviewSales(ctx context.Context, events []SaleEvent) []SellReview {
	symbols := make([]string, 0, len(events))
	for _, e := range events {
		if e.Status == StatusOK {
			symbols = append(symbols, e.Symbol)
		}
	}
	a.quotes.Prefetch(ctx, symbols)

	reviews := make([]SellReview, 0, len(events))
	for _, e := range events {
		reviews = append(reviews, SellReview{SaleEvent: e, Opportunity: a.OpportunityCost(ctx, e)})
	}
	return reviews
}

// RealizedSummary aggregates the realized side of a set of sale reviews.
// Only sales whose own figures computed enter the money totals; the verdict
// counts additionally need the opportunity side. Excluded counts the rows
// left out of totals.
type RealizedSummary struct {
	Currency string
	Sales    int
	Excluded int

	SharesSold   Quantity
	Proceeds     Money
	CostBasis    Money
	RealizedGain Money
	GainPct      Percent // gain over cost basis
	AvgGainPct   Percent // mean of per-sale gain percentages

	Best  *SellReview // highest realized gain percentage
	Worst *SellReview // lowest realized gain percentage

	TooEarly, GoodTime, TooLate int
}

// Summarize aggregates sale reviews. Pure, no external calls: every amount
// was converted when the review was built.
func (a *Analyzer) Summarize(reviews []SellReview) RealizedSummary {
	s := RealizedSummary{
		Currency:  a.reporting,
		Proceeds:  M(0, a.reporting),
		CostBasis: M(0, a.reporting),
	}
	var pctSum float64
	for i := range reviews {
		r := &reviews[i]
		if r.SaleEvent.Status != StatusOK {
			s.Excluded++
			continue
		}
		s.Sales++
		s.SharesSold = s.SharesSold.Add(r.SharesSold)
		s.Proceeds = s.Proceeds.Add(r.Proceeds)
		s.CostBasis = s.CostBasis.Add(r.SaleEvent.CostBasis)
		pctSum += float64(r.RealizedGainPct)
		if s.Best == nil || r.RealizedGainPct > s.Best.RealizedGainPct {
			s.Best = r
		}
		if s.Worst == nil || r.RealizedGainPct < s.Worst.RealizedGainPct {
			s.Worst = r
		}
		switch r.Verdict {
		case SoldTooEarly:
			s.TooEarly++
		case SoldAtGoodTime:
			s.GoodTime++
		case SoldTooLate:
			s.TooLate++
		}
	}
	s.RealizedGain = s.Proceeds.Sub(s.CostBasis)
	s.GainPct = PercentOf(s.RealizedGain, s.CostBasis)
	if s.Sales > 0 {
		s.AvgGainPct = Percent(pctSum / float64(s.Sales))
	}
	return s
}

// GroupKey extracts the grouping label of one sale review.
type GroupKey func(SellReview) string

// ByReviewSymbol groups reviews per symbol.
func ByReviewSymbol(r SellReview) string { return r.Symbol }

// ByReviewAccount groups reviews per account.
func ByReviewAccount(r SellReview) string { return r.Account }

// ByReviewYear groups reviews per sale year.
func ByReviewYear(r SellReview) string { return r.SellDate.Format("2006") }

// GroupSummary is one group's aggregate in a grouped realized summary.
type GroupSummary struct {
	Key string
	RealizedSummary
}

// SummarizeBy aggregates sale reviews grouped by a key, groups sorted by key.
func (a *Analyzer) SummarizeBy(reviews []SellReview, key GroupKey) []GroupSummary {
	groups := make(map[string][]SellReview)
	for _, r := range reviews {
		k := key(r)
		groups[k] = append(groups[k], r)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]GroupSummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, GroupSummary{Key: k, RealizedSummary: a.Summarize(groups[k])})
	}
	return out
}

// PositionValue is one open position priced at the current quote.
type PositionValue struct {
	OpenPosition
	Quote          Quote // native currency, zero when Status is not ok
	MarketValue    Money // reporting currency
	CostBasis      Money // reporting currency, converted at the valuation date
	UnrealizedGain Money // reporting currency
	GainPct        Percent
	Status         Status
}

// HoldingsSummary values every open position and totals the ones that could
// be priced. Degraded rows stay in Positions with their status; Excluded
// counts them.
type HoldingsSummary struct {
	Currency string
	Excluded int

	Positions      []PositionValue
	MarketValue    Money
	CostBasis      Money
	UnrealizedGain Money
	GainPct        Percent
}

// UnrealizedSummary prices the open positions at their current quotes.
// Market value and cost basis both convert at the valuation date so the two
// sides of the comparison use one rate; for a single-currency position the
// gain then equals (price - avgCost) * shares in that currency. A missing
// quote yields StatusPriceUnavailable, a missing rate
// StatusConversionUnavailable; either keeps the row and skips the totals.
func (a *Analyzer) UnrealizedSummary(ctx context.Context, positions []OpenPosition) HoldingsSummary {
	s := HoldingsSummary{
		Currency:    a.reporting,
		MarketValue: M(0, a.reporting),
		CostBasis:   M(0, a.reporting),
	}
	symbols := make([]string, 0, len(positions))
	for _, p := range positions {
		symbols = append(symbols, p.Symbol)
	}
	a.quotes.Prefetch(ctx, symbols)

	for _, p := range positions {
		s.Positions = append(s.Positions, a.value(ctx, p))
	}
	for _, v := range s.Positions {
		if v.Status != StatusOK {
			s.Excluded++
			continue
		}
		s.MarketValue = s.MarketValue.Add(v.MarketValue)
		s.CostBasis = s.CostBasis.Add(v.CostBasis)
	}
	s.UnrealizedGain = s.MarketValue.Sub(s.CostBasis)
	s.GainPct = PercentOf(s.UnrealizedGain, s.CostBasis)
	return s
}

// value prices one open position.
func (a *Analyzer) value(ctx context.Context, p OpenPosition) PositionValue {
	v := PositionValue{OpenPosition: p}
	q, err := a.quotes.Quote(ctx, p.Symbol)
	if err != nil {
		v.Status = StatusPriceUnavailable
		return v
	}
	v.Quote = q

	market, err := a.converter.Convert(ctx, q.Price.Mul(p.Shares), a.reporting, q.At)
	if err != nil {
		v.Status = StatusConversionUnavailable
		return v
	}
	cost := M(0, a.reporting)
	for _, l := range p.Lots {
		c, err := a.converter.Convert(ctx, l.Cost(), a.reporting, q.At)
		if err != nil {
			v.Status = StatusConversionUnavailable
			return v
		}
		cost = cost.Add(c)
	}

	v.MarketValue = market
	v.CostBasis = cost
	v.UnrealizedGain = market.Sub(cost)
	v.GainPct = PercentOf(v.UnrealizedGain, cost)
	v.Status = StatusOK
	return v
}
