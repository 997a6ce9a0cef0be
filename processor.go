package folio

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Status marks whether an output row's figures could be computed. Missing
// live data never drops a row or zero-fills it, the row carries its status
// and the renderer decides how to show it.
type Status string

const (
	StatusOK                    Status = "ok"
	StatusPriceUnavailable      Status = "price unavailable"
	StatusConversionUnavailable Status = "conversion unavailable"
	StatusQuoteUnavailable      Status = "quote unavailable"
)

// SaleEvent is the immutable record of one processed sell: what was sold, at
// what price, and against which prior buy lots the shares were matched.
//
// Native-currency fields (Price, GrossProceeds, Fee, NetProceeds) are always
// set. The reporting-currency fields (Proceeds, CostBasis, RealizedGain) are
// only meaningful when Status is StatusOK.
type SaleEvent struct {
	SellDate Date
	Account  string
	Symbol   string
	Name     string

	SharesSold    Quantity
	Price         Money // per share, sale currency
	GrossProceeds Money // shares*price, sale currency
	Fee           Money // sale currency
	NetProceeds   Money // gross - fee, sale currency

	// Matched lists the lots the sale consumed, oldest first, shares summing
	// exactly to SharesSold. Each matched lot keeps its own currency.
	Matched []MatchedLot

	Proceeds        Money // net proceeds, reporting currency, at the sale date's rate
	CostBasis       Money // sum of matched costs, reporting currency, each at its lot's open date rate
	RealizedGain    Money // Proceeds - CostBasis
	RealizedGainPct Percent
	Status          Status
}

func (e SaleEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("sell_date", e.SellDate)
	w.Append("account", e.Account)
	w.Append("symbol", e.Symbol)
	w.Optional("name", e.Name)
	w.Append("shares_sold", e.SharesSold)
	w.Append("price", e.Price)
	w.Append("fee", e.Fee)
	w.Append("net_proceeds", e.NetProceeds)
	w.Append("matched_lots", e.Matched)
	if e.Status == StatusOK {
		w.Append("proceeds", e.Proceeds)
		w.Append("cost_basis", e.CostBasis)
		w.Append("realized_gain", e.RealizedGain)
		w.Append("realized_gain_pct", e.RealizedGainPct.String())
	}
	w.Append("status", string(e.Status))
	return w.MarshalJSON()
}

// IncomeEntry accumulates the dividend cash one (account, symbol) paid out.
// Dividends never touch the lot queues, they are income, not cost basis.
type IncomeEntry struct {
	Account     string
	Symbol      string
	Name        string
	Cash        Money // sum of shares*price - fee, transaction currency
	Payments    int
	LastPayment Date
}

// Replay is the outcome of one deterministic pass over a ledger: the sale
// events in replay order, the dividend income ledger, and the lot tracker
// state left behind, from which open positions are read. It is entirely
// recomputable: replaying the same ledger twice yields identical results.
type Replay struct {
	reporting string
	tracker   *Tracker
	sales     []SaleEvent
	income    []IncomeEntry
	names     map[string]string // symbol to last seen display name
}

// Replay processes every transaction in replay order: buys open lots at
// their fee-inclusive unit cost, sells consume lots FIFO and emit one
// SaleEvent each, dividends accumulate into the income ledger.
//
// Realized figures are expressed in the reporting currency: net proceeds
// converted at the sale date, each matched lot's cost converted at the lot's
// own open date, converted independently before summing so cross-currency
// lots are never mixed raw. A missing rate downgrades that one event to
// StatusConversionUnavailable and the pass continues.
//
// A structurally broken ledger (non-positive shares or price, a sell
// exceeding its buy history) aborts the pass with a LedgerError locating the
// offending transaction: a broken history must not produce a report.
func (l *Ledger) Replay(ctx context.Context, conv *Converter, reportingCurrency string) (*Replay, error) {
	if conv == nil {
		conv = NewConverter(nil)
	}
	r := &Replay{
		reporting: reportingCurrency,
		tracker:   NewTracker(),
		names:     make(map[string]string),
	}
	incomes := make(map[positionKey]*IncomeEntry)

	for i, tx := range l.Transactions() {
		if err := tx.Validate(); err != nil {
			return nil, at(err, i)
		}
		if tx.Name != "" {
			r.names[tx.Symbol] = tx.Name
		}

		switch tx.Type {
		case Buy:
			if err := r.tracker.OpenLot(tx.Account, tx.Symbol, tx.Date, tx.Shares, tx.UnitCost()); err != nil {
				return nil, at(err, i)
			}

		case Sell:
			matched, err := r.tracker.ConsumeShares(tx.Account, tx.Symbol, tx.Date, tx.Shares)
			if err != nil {
				if errors.Is(err, ErrInsufficientShares) {
					err = fmt.Errorf("%w: %w", ErrMalformedLedger, err)
				}
				return nil, at(err, i)
			}
			r.sales = append(r.sales, r.saleEvent(ctx, conv, tx, matched))

		case Dividend:
			key := positionKey{tx.Account, tx.Symbol}
			entry := incomes[key]
			if entry == nil {
				entry = &IncomeEntry{Account: tx.Account, Symbol: tx.Symbol}
				incomes[key] = entry
			}
			entry.Cash = entry.Cash.Add(tx.CashAmount())
			entry.Payments++
			entry.LastPayment = tx.Date
		}
	}

	for _, entry := range incomes {
		entry.Name = r.names[entry.Symbol]
		r.income = append(r.income, *entry)
	}
	sort.Slice(r.income, func(i, j int) bool {
		if r.income[i].Account != r.income[j].Account {
			return r.income[i].Account < r.income[j].Account
		}
		return r.income[i].Symbol < r.income[j].Symbol
	})
	return r, nil
}

// at stamps the replay position onto a structural ledger error.
func at(err error, index int) error {
	var le *LedgerError
	if errors.As(err, &le) {
		le.Index = index
	}
	return err
}

// saleEvent builds the realized record of one sell against its matched lots.
func (r *Replay) saleEvent(ctx context.Context, conv *Converter, tx Transaction, matched []MatchedLot) SaleEvent {
	e := SaleEvent{
		SellDate:      tx.Date,
		Account:       tx.Account,
		Symbol:        tx.Symbol,
		Name:          r.names[tx.Symbol],
		SharesSold:    tx.Shares,
		Price:         tx.Price,
		GrossProceeds: tx.GrossAmount(),
		Fee:           tx.Fee,
		NetProceeds:   tx.NetProceeds(),
		Matched:       matched,
		Status:        StatusOK,
	}

	proceeds, err := conv.Convert(ctx, e.NetProceeds, r.reporting, tx.Date)
	if err != nil {
		e.Status = StatusConversionUnavailable
		return e
	}
	cost := M(0, r.reporting)
	for _, m := range matched {
		// Each lot's cost converts at the lot's own open date: a historical
		// cost basis must not be restated at the sale date's rate.
		c, err := conv.Convert(ctx, m.Cost(), r.reporting, m.OpenDate)
		if err != nil {
			e.Status = StatusConversionUnavailable
			return e
		}
		cost = cost.Add(c)
	}

	e.Proceeds = proceeds
	e.CostBasis = cost
	e.RealizedGain = proceeds.Sub(cost)
	e.RealizedGainPct = PercentOf(e.RealizedGain, cost)
	return e
}

// ReportingCurrency returns the currency realized figures are expressed in.
func (r *Replay) ReportingCurrency() string { return r.reporting }

// Sales returns the sale events in replay order.
func (r *Replay) Sales() []SaleEvent {
	out := make([]SaleEvent, len(r.sales))
	copy(out, r.sales)
	return out
}

// Income returns the dividend income ledger, sorted by account then symbol.
func (r *Replay) Income() []IncomeEntry {
	out := make([]IncomeEntry, len(r.income))
	copy(out, r.income)
	return out
}

// Positions returns every open position left after the replay, display names
// filled in, sorted by account then symbol.
func (r *Replay) Positions() []OpenPosition {
	positions := r.tracker.Positions()
	for i := range positions {
		positions[i].Name = r.names[positions[i].Symbol]
	}
	return positions
}

// Position returns the open position of one (account, symbol). The bool is
// false when that pair never had a lot.
func (r *Replay) Position(account, symbol string) (OpenPosition, bool) {
	p, ok := r.tracker.OpenPosition(account, symbol)
	if ok {
		p.Name = r.names[p.Symbol]
	}
	return p, ok
}
