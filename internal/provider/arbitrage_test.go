package provider

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"arbitrage-scanner/internal/domain"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestProvider(t *testing.T, status int, body string, check func(*http.Request)) *ArbitrageProvider {
	t.Helper()
	provider := NewArbitrageProvider(trace.NewNoopTracerProvider().Tracer("test"), "http://example/", time.Second, 60)
	provider.limiter = rate.NewLimiter(rate.Inf, 1)
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if check != nil {
				check(req)
			}
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(bytes.NewReader([]byte(body))),
				Header:     make(http.Header),
			}, nil
		}),
	}
	return provider
}

func TestArbitrageProviderFetchOpportunities(t *testing.T) {
	t.Parallel()

	body := `{"opportunities":[{"pair":"BTCUSDT","buy":"Binance","sell":"Bybit","buy_price":100,"profit":5,"volume_usd":1000,"buy_url":null}],"count":1}`
	provider := newTestProvider(t, http.StatusOK, body, func(req *http.Request) {
		if req.URL.String() != "http://example/arbitrage/all" {
			t.Errorf("unexpected url: %s", req.URL)
		}
		if req.Header.Get("Accept") != "application/json" {
			t.Errorf("missing accept header")
		}
	})

	recs, err := provider.FetchOpportunities(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Pair != "BTCUSDT" || recs[0].BuyPrice != domain.S("100") {
		t.Fatalf("unexpected records: %+v", recs)
	}
	if recs[0].BuyURL.Valid {
		t.Fatalf("null url should be missing: %+v", recs[0].BuyURL)
	}
}

func TestArbitrageProviderMissingField(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t, http.StatusOK, `{"count":0}`, nil)
	recs, err := provider.FetchOpportunities(context.Background())
	if err != nil {
		t.Fatalf("missing field must not be an error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
}

func TestArbitrageProviderErrors(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t, http.StatusBadGateway, "upstream down", nil)
	if _, err := provider.FetchOpportunities(context.Background()); !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}

	provider = newTestProvider(t, http.StatusOK, "<html>", nil)
	if _, err := provider.FetchOpportunities(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestArbitrageProviderFetchPair(t *testing.T) {
	t.Parallel()

	body := `{"prices":[{"exchange":"Binance","price":100.5},{"exchange":"OKX","price":null,"error":"timeout"}],"opportunities":[],"available_on":["Binance","OKX"]}`
	provider := newTestProvider(t, http.StatusOK, body, func(req *http.Request) {
		if req.URL.Path != "/arbitrage" || req.URL.Query().Get("pair") != "ETHUSDT" {
			t.Errorf("unexpected request: %s", req.URL)
		}
	})

	quote, err := provider.FetchPair(context.Background(), " ethusdt ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Pair != "ETHUSDT" || len(quote.Prices) != 2 || len(quote.AvailableOn) != 2 {
		t.Fatalf("unexpected quote: %+v", quote)
	}
	if quote.Prices[0].Price == nil || *quote.Prices[0].Price != 100.5 || quote.Prices[1].Price != nil {
		t.Fatalf("unexpected prices: %+v", quote.Prices)
	}

	if _, err := provider.FetchPair(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty pair")
	}
}

func TestArbitrageProviderHonorsContext(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t, http.StatusOK, `{}`, nil)
	provider.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	_ = provider.limiter.Wait(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := provider.FetchOpportunities(ctx); err == nil {
		t.Fatal("expected rate limit wait to fail with the context")
	}
}

func TestNewArbitrageProviderDefaults(t *testing.T) {
	provider := NewArbitrageProvider(trace.NewNoopTracerProvider().Tracer("test"), "", 0, 0)
	if provider.baseURL != defaultArbitrageBaseURL {
		t.Fatalf("unexpected base url: %s", provider.baseURL)
	}
	if provider.client.Timeout != 10*time.Second {
		t.Fatalf("unexpected timeout: %v", provider.client.Timeout)
	}
}
