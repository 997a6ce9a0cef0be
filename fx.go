package folio

import (
	"context"
	"errors"
	"fmt"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// RateProvider yields the exchange rate from one currency to another on a
// given date. Implementations report a missing rate with ErrRateUnavailable.
type RateProvider interface {
	Rate(ctx context.Context, from, to string, on Date) (decimal.Decimal, error)
}

// Converter expresses amounts in a target currency. Lookups are memoized per
// (currency pair, date) for the duration of one analysis run, misses
// included, so a flaky pair is asked once and not once per ledger row.
//
// A conversion failure never substitutes a cached or default rate: the error
// is returned and the caller downgrades that one output entry to an explicit
// unavailable status.
type Converter struct {
	provider RateProvider
	memo     *gocache.Cache
}

// NewConverter wraps a rate provider. A nil provider yields a converter that
// only performs identity conversions, for offline runs.
func NewConverter(p RateProvider) *Converter {
	return &Converter{
		provider: p,
		memo:     gocache.New(gocache.NoExpiration, 0),
	}
}

// Convert returns the amount expressed in the target currency at the rate of
// the given date. Identity conversions never consult the provider.
func (c *Converter) Convert(ctx context.Context, m Money, to string, on Date) (Money, error) {
	if m.cur == to || m.cur == "" {
		return Money{value: m.value, cur: to}, nil
	}
	rate, err := c.rateOn(ctx, m.cur, to, on)
	if err != nil {
		return Money{}, err
	}
	return Money{value: m.value.Mul(rate), cur: to}, nil
}

// rateOn resolves and memoizes one (pair, date) rate.
func (c *Converter) rateOn(ctx context.Context, from, to string, on Date) (decimal.Decimal, error) {
	key := from + "/" + to + "@" + on.String()
	if v, found := c.memo.Get(key); found {
		switch cached := v.(type) {
		case error:
			return decimal.Decimal{}, cached
		case decimal.Decimal:
			return cached, nil
		}
	}

	rate, err := c.lookup(ctx, from, to, on)
	if err != nil {
		c.memo.Set(key, err, gocache.NoExpiration)
		return decimal.Decimal{}, err
	}
	c.memo.Set(key, rate, gocache.NoExpiration)
	return rate, nil
}

func (c *Converter) lookup(ctx context.Context, from, to string, on Date) (decimal.Decimal, error) {
	if c.provider == nil {
		return decimal.Decimal{}, fmt.Errorf("%s/%s on %s: no rate provider: %w", from, to, on, ErrRateUnavailable)
	}
	rate, err := c.provider.Rate(ctx, from, to, on)
	if err != nil {
		// Any provider failure means the rate is unavailable for this run.
		if !errors.Is(err, ErrRateUnavailable) {
			err = fmt.Errorf("%v: %w", err, ErrRateUnavailable)
		}
		return decimal.Decimal{}, fmt.Errorf("%s/%s on %s: %w", from, to, on, err)
	}
	if !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%s/%s on %s: rate %s is not positive: %w", from, to, on, rate, ErrRateUnavailable)
	}
	return rate, nil
}
