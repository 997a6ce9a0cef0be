package folio

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"golang.org/x/time/rate"
)

/*
	Yahoo chart payload, trimmed to what we read:

	{
	    "chart": {
	        "result": [
	            {
	                "meta": {
	                    "currency": "USD",
	                    "symbol": "POWL",
	                    "regularMarketPrice": 183.16,
	                    ...
	                }
	            }
	        ],
	        "error": null
	    }
	}
*/

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// yahooProvider reads latest prices from the public Yahoo chart endpoint.
// Responses are disk-cached for the day and requests are rate limited, Yahoo
// throttles aggressive clients.
type yahooProvider struct {
	client  *http.Client
	limiter *rate.Limiter
	base    string
}

// NewYahooProvider returns a QuoteProvider backed by Yahoo Finance.
func NewYahooProvider() QuoteProvider {
	return &yahooProvider{
		client:  dailyClient(),
		limiter: rate.NewLimiter(rate.Limit(2), 1), // 2 requests per second
		base:    yahooChartURL,
	}
}

func (p *yahooProvider) Quote(ctx context.Context, symbol string) (Quote, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return Quote{}, err
	}
	addr := p.base + symbol
	var jobj any
	if err := jget(p.client, addr, &jobj); err != nil {
		return Quote{}, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}

	price, err := jfloat(jobj, "$.chart.result[0].meta.regularMarketPrice")
	if err != nil {
		return Quote{}, fmt.Errorf("error parsing quote for %q: %w", symbol, err)
	}
	currency, err := jstring(jobj, "$.chart.result[0].meta.currency")
	if err != nil {
		return Quote{}, fmt.Errorf("error parsing quote for %q: %w", symbol, err)
	}

	return Quote{
		Symbol: symbol,
		Price:  M(price, strings.ToUpper(currency)),
		At:     Today(),
	}, nil
}

// jfloat extracts a float from a parsed JSON document by jsonpath.
func jfloat(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", path, err)
	}
	// jsonpath is never clear about whether it returns a list of 1 answer or
	// a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%q: not a number: %v", path, jval)
	}
	return val, nil
}

// jstring extracts a string from a parsed JSON document by jsonpath.
func jstring(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("%q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%q: not a string: %v", path, jval)
	}
	return val, nil
}
