package folio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

const yahooChartPayload = `{
  "chart": {
    "result": [
      {
        "meta": {
          "currency": "USD",
          "symbol": "POWL",
          "exchangeName": "NYQ",
          "regularMarketPrice": 183.16,
          "regularMarketTime": 1693411200
        }
      }
    ],
    "error": null
  }
}`

func testYahoo(srv *httptest.Server) *yahooProvider {
	return &yahooProvider{
		client:  srv.Client(),
		limiter: rate.NewLimiter(rate.Inf, 1),
		base:    srv.URL + "/",
	}
}

func TestYahooProvider_Quote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/POWL" {
			t.Errorf("got request for %q, want /POWL", r.URL.Path)
		}
		w.Write([]byte(yahooChartPayload))
	}))
	defer srv.Close()

	q, err := testYahoo(srv).Quote(context.Background(), "POWL")
	if err != nil {
		t.Fatal(err)
	}
	if !q.Price.Equal(M(183.16, "USD")) {
		t.Errorf("got %s, want $183.16", q.Price)
	}
	if q.Price.Currency() != "USD" {
		t.Errorf("got currency %q, want USD", q.Price.Currency())
	}
}

func TestYahooProvider_UnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found"}}}`))
	}))
	defer srv.Close()

	_, err := testYahoo(srv).Quote(context.Background(), "NOPE")
	if err == nil {
		t.Fatal("got nil, want an error for an unknown symbol")
	}
	// the book classifies any provider failure as unavailable
	book := NewQuoteBook(testYahoo(srv))
	if _, err := book.Quote(context.Background(), "NOPE"); !errors.Is(err, ErrQuoteUnavailable) {
		t.Fatalf("got %v, want ErrQuoteUnavailable", err)
	}
}

func TestYahooProvider_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{"currency":"USD"}}],"error":null}}`))
	}))
	defer srv.Close()

	if _, err := testYahoo(srv).Quote(context.Background(), "POWL"); err == nil {
		t.Fatal("got nil, want an error for a payload without a price")
	}
}
