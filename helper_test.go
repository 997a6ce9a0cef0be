package folio

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// fakeQuotes is a QuoteProvider serving from a fixed price map. Lookups may
// come from Prefetch goroutines, the call counter is guarded.
type fakeQuotes struct {
	prices map[string]Quote
	mu     sync.Mutex
	calls  int
}

func (f *fakeQuotes) Quote(_ context.Context, symbol string) (Quote, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	q, ok := f.prices[symbol]
	if !ok {
		return Quote{}, fmt.Errorf("%s: %w", symbol, ErrQuoteUnavailable)
	}
	return q, nil
}

// fakeRates is a RateProvider serving from a fixed pair map, date ignored.
type fakeRates struct {
	rates map[string]float64 // key "FROM/TO"
	calls int
}

func (f *fakeRates) Rate(_ context.Context, from, to string, _ Date) (decimal.Decimal, error) {
	f.calls++
	r, ok := f.rates[from+"/"+to]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%s/%s: %w", from, to, ErrRateUnavailable)
	}
	return decimal.NewFromFloat(r), nil
}

// tx is a shorthand transaction builder for tests, date in ISO form.
func tx(date string, typ TxType, account, symbol string, shares, price, fee float64, currency string) Transaction {
	return NewTransaction(MustParse(date), typ, account, symbol, Q(shares), M(price, currency), M(fee, currency))
}

// ledgerOf builds a sorted ledger with one declared account per currency seen.
func ledgerOf(txs ...Transaction) *Ledger {
	l := NewLedger()
	seen := map[string]bool{}
	for _, t := range txs {
		if !seen[t.Account] {
			seen[t.Account] = true
			l.AddAccount(Account{Name: t.Account, Currency: t.Currency(), Cash: M(0, t.Currency())})
		}
	}
	l.Append(txs...)
	return l
}
