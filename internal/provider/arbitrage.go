package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"arbitrage-scanner/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const defaultArbitrageBaseURL = "http://localhost:8000"

var ErrUnexpectedStatus = errors.New("unexpected status")

// ArbitrageProvider reads opportunities from the arbitrage backend.
type ArbitrageProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *rate.Limiter
}

// NewArbitrageProvider creates a client for baseURL. Requests are bounded by timeout
// and spread to at most perMinute calls per minute with a small burst for manual refreshes.
func NewArbitrageProvider(tracer trace.Tracer, baseURL string, timeout time.Duration, perMinute int) *ArbitrageProvider {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultArbitrageBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if perMinute <= 0 {
		perMinute = 30
	}
	return &ArbitrageProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		tracer:  tracer,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60), 5),
	}
}

// FetchOpportunities calls GET /arbitrage/all. A body without an opportunities
// field yields an empty slice, not an error.
func (p *ArbitrageProvider) FetchOpportunities(ctx context.Context) ([]domain.OpportunityRecord, error) {
	ctx, span := p.tracer.Start(ctx, "arbitrage.fetch-opportunities")
	defer span.End()

	body, err := p.doRequest(ctx, p.baseURL+"/arbitrage/all")
	if err != nil {
		return nil, fmt.Errorf("fetch opportunities: %w", err)
	}

	var resp domain.OpportunitiesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse opportunities: %w", err)
	}
	span.SetAttributes(attribute.Int("opportunities", len(resp.Opportunities)))
	return resp.Opportunities, nil
}

// FetchPair calls GET /arbitrage?pair=XXX for the per-exchange prices of one pair.
func (p *ArbitrageProvider) FetchPair(ctx context.Context, pair string) (*domain.PairQuote, error) {
	ctx, span := p.tracer.Start(ctx, "arbitrage.fetch-pair")
	defer span.End()

	pair = strings.ToUpper(strings.TrimSpace(pair))
	if pair == "" {
		return nil, errors.New("pair is required")
	}
	span.SetAttributes(attribute.String("pair", pair))

	body, err := p.doRequest(ctx, p.baseURL+"/arbitrage?pair="+url.QueryEscape(pair))
	if err != nil {
		return nil, fmt.Errorf("fetch pair %s: %w", pair, err)
	}

	var quote domain.PairQuote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("parse pair %s: %w", pair, err)
	}
	quote.Pair = pair
	return &quote, nil
}

func (p *ArbitrageProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return io.ReadAll(resp.Body)
}
