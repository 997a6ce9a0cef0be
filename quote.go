package folio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

// Quote is a current market price for one symbol, tagged with the currency
// the venue trades it in and the date the price is good for.
type Quote struct {
	Symbol string
	Price  Money
	At     Date
}

// QuoteProvider yields the latest price of a symbol. Implementations report
// a missing quote with ErrQuoteUnavailable; any other failure is treated the
// same way by the QuoteBook, a price that cannot be fetched is simply not
// available for this run.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// QuoteBook memoizes quote lookups for the duration of one analysis run,
// misses included: a symbol that failed once is not retried on every row
// that mentions it.
type QuoteBook struct {
	provider QuoteProvider
	memo     *gocache.Cache
}

// NewQuoteBook wraps a provider. A nil provider yields a book where every
// symbol is unavailable, for offline runs.
func NewQuoteBook(p QuoteProvider) *QuoteBook {
	return &QuoteBook{
		provider: p,
		memo:     gocache.New(gocache.NoExpiration, 0),
	}
}

// Quote returns the memoized quote for a symbol, fetching it on first use.
func (b *QuoteBook) Quote(ctx context.Context, symbol string) (Quote, error) {
	if v, found := b.memo.Get(symbol); found {
		switch cached := v.(type) {
		case error:
			return Quote{}, cached
		case Quote:
			return cached, nil
		}
	}
	q, err := b.lookup(ctx, symbol)
	if err != nil {
		b.memo.Set(symbol, err, gocache.NoExpiration)
		return Quote{}, err
	}
	b.memo.Set(symbol, q, gocache.NoExpiration)
	return q, nil
}

func (b *QuoteBook) lookup(ctx context.Context, symbol string) (Quote, error) {
	if b.provider == nil {
		return Quote{}, fmt.Errorf("%s: no quote provider: %w", symbol, ErrQuoteUnavailable)
	}
	q, err := b.provider.Quote(ctx, symbol)
	if err != nil {
		if !errors.Is(err, ErrQuoteUnavailable) {
			err = fmt.Errorf("%v: %w", err, ErrQuoteUnavailable)
		}
		return Quote{}, fmt.Errorf("%s: %w", symbol, err)
	}
	if !q.Price.IsPositive() {
		return Quote{}, fmt.Errorf("%s: price %s is not positive: %w", symbol, q.Price, ErrQuoteUnavailable)
	}
	return q, nil
}

// Prefetch looks up all symbols concurrently and parks the results in the
// memo, so the analysis that follows runs synchronously on cached data. A
// failed lookup degrades that one symbol and never the others. The go-cache
// store is safe for concurrent writers.
func (b *QuoteBook) Prefetch(ctx context.Context, symbols []string) {
	var wg sync.WaitGroup
	seen := make(map[string]bool, len(symbols))
	for _, symbol := range symbols {
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Quote(ctx, symbol)
		}()
	}
	wg.Wait()
}
