package folio

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

/*
	Frankfurter payload (ECB reference rates):

	GET https://api.frankfurter.app/2025-05-02?from=USD&to=EUR

	{
	    "amount": 1.0,
	    "base": "USD",
	    "date": "2025-05-02",
	    "rates": {
	        "EUR": 0.88155
	    }
	}
*/

const frankfurterURL = "https://api.frankfurter.app"

// frankfurterProvider reads historical and latest ECB reference rates from
// frankfurter.app. The service only exposes dates with a published fixing;
// asking for a week-end or a future date returns the closest prior fixing,
// which is exactly what valuing a transaction on that date needs.
type frankfurterProvider struct {
	client  *http.Client
	limiter *rate.Limiter
	base    string
}

// NewFrankfurterProvider returns a RateProvider backed by frankfurter.app.
func NewFrankfurterProvider() RateProvider {
	return &frankfurterProvider{
		client:  dailyClient(),
		limiter: rate.NewLimiter(rate.Limit(5), 1),
		base:    frankfurterURL,
	}
}

func (p *frankfurterProvider) Rate(ctx context.Context, from, to string, on Date) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return decimal.Decimal{}, err
	}

	day := "latest"
	if !on.IsZero() && on.Before(Today()) {
		day = on.String()
	}
	addr := fmt.Sprintf("%s/%s?from=%s&to=%s", p.base, day, from, to)

	var jobj any
	if err := jget(p.client, addr, &jobj); err != nil {
		return decimal.Decimal{}, fmt.Errorf("error retrieving rate %s/%s: %w", from, to, err)
	}
	val, err := jfloat(jobj, "$.rates."+to)
	if err != nil {
		// An unknown currency code comes back as a document without that
		// rate: unavailable, not fatal.
		return decimal.Decimal{}, fmt.Errorf("no %s/%s rate on %s: %v: %w", from, to, on, err, ErrRateUnavailable)
	}
	return decimal.NewFromFloat(val), nil
}
