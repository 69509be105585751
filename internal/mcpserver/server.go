// Package mcpserver exposes the opportunity view and refresh controls as MCP tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"arbitrage-scanner/internal/domain"
	"arbitrage-scanner/internal/job"
	"arbitrage-scanner/internal/opportunity"
	"arbitrage-scanner/internal/service"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// OpportunitySource is the read side of service.OpportunityService.
type OpportunitySource interface {
	View(criteria domain.FilterCriteria, sort opportunity.SortState) ([]domain.Row, *service.Snapshot, error)
	Loading() bool
	PairQuote(ctx context.Context, pair string) (*domain.PairQuote, error)
}

// RefreshControl is the part of job.RefreshController exposed as a tool.
type RefreshControl interface {
	State() job.RefreshState
	ManualRefresh() uint64
	SetEnabled(enabled bool)
	SetInterval(secs int) error
}

type ListInput struct {
	Exchanges []string `json:"exchanges,omitempty" jsonschema:"exchange selection; omitted means every tracked exchange"`
	Whitelist string   `json:"whitelist,omitempty" jsonschema:"comma separated base assets to keep"`
	Blacklist string   `json:"blacklist,omitempty" jsonschema:"comma separated base assets to drop"`
	MinAmount string   `json:"min_amount,omitempty" jsonschema:"minimum volume in USD"`
	MinProfit string   `json:"min_profit,omitempty" jsonschema:"minimum profit percent"`
	MaxProfit string   `json:"max_profit,omitempty" jsonschema:"maximum profit percent"`
	Sort      string   `json:"sort,omitempty" jsonschema:"column key, default profit_percent"`
	Order     string   `json:"order,omitempty" jsonschema:"asc or desc, default desc"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum rows returned, default 50"`
}

type ListOutput struct {
	Status        service.Status `json:"status"`
	Loading       bool           `json:"loading"`
	Error         string         `json:"error,omitempty"`
	Total         int            `json:"total"`
	Opportunities []domain.Row   `json:"opportunities"`
}

type PairInput struct {
	Pair string `json:"pair" jsonschema:"trading pair such as BTCUSDT"`
}

type PairOutput struct {
	Pair          string                 `json:"pair"`
	Prices        []domain.ExchangePrice `json:"prices"`
	Opportunities []domain.Row           `json:"opportunities"`
	AvailableOn   []string               `json:"available_on"`
}

type RefreshInput struct {
	Enabled      *bool `json:"enabled,omitempty" jsonschema:"turn auto refresh on or off"`
	IntervalSecs *int  `json:"interval_secs,omitempty" jsonschema:"auto refresh interval: 5, 10, 20, 30 or 60"`
}

type tools struct {
	tracer  trace.Tracer
	source  OpportunitySource
	refresh RefreshControl
}

// New builds an MCP server with the list_opportunities, pair_prices and refresh tools.
func New(tracer trace.Tracer, source OpportunitySource, refresh RefreshControl) *mcp.Server {
	t := &tools{tracer: tracer, source: source, refresh: refresh}
	server := mcp.NewServer(&mcp.Implementation{Name: "arbitrage-scanner", Version: "1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_opportunities",
		Description: "List current cross-exchange arbitrage opportunities, filtered and sorted.",
	}, t.listOpportunities)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "pair_prices",
		Description: "Per-exchange prices and opportunities for one trading pair.",
	}, t.pairPrices)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "refresh",
		Description: "Request a refresh now, optionally changing the auto refresh settings.",
	}, t.refreshNow)

	return server
}

func (t *tools) listOpportunities(ctx context.Context, _ *mcp.CallToolRequest, in ListInput) (*mcp.CallToolResult, ListOutput, error) {
	_, span := t.tracer.Start(ctx, "mcp.list-opportunities")
	defer span.End()

	criteria := domain.DefaultCriteria()
	if in.Exchanges != nil {
		criteria.Exchanges = in.Exchanges
	}
	criteria.Whitelist = in.Whitelist
	criteria.Blacklist = in.Blacklist
	criteria.MinAmount = in.MinAmount
	criteria.MinProfit = in.MinProfit
	criteria.MaxProfit = in.MaxProfit

	sortState := opportunity.SortState{Key: "profit_percent", Direction: domain.Descending}
	if in.Sort != "" {
		sortState.Key = in.Sort
	}
	if in.Order != "" {
		sortState.Direction = domain.ParseDirection(in.Order)
	}

	rows, snap, err := t.source.View(criteria, sortState)
	if err != nil {
		return nil, ListOutput{}, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	span.SetAttributes(attribute.Int("total", len(rows)), attribute.Int("limit", limit))

	return nil, ListOutput{
		Status:        snap.Status,
		Loading:       t.source.Loading(),
		Error:         snap.Err,
		Total:         len(rows),
		Opportunities: rows[:min(limit, len(rows))],
	}, nil
}

func (t *tools) pairPrices(ctx context.Context, _ *mcp.CallToolRequest, in PairInput) (*mcp.CallToolResult, PairOutput, error) {
	ctx, span := t.tracer.Start(ctx, "mcp.pair-prices")
	defer span.End()

	pair := strings.ToUpper(strings.TrimSpace(in.Pair))
	if pair == "" {
		return nil, PairOutput{}, errors.New("pair is required")
	}
	span.SetAttributes(attribute.String("pair", pair))

	quote, err := t.source.PairQuote(ctx, pair)
	if err != nil {
		return nil, PairOutput{}, fmt.Errorf("lookup %s: %w", pair, err)
	}
	out := PairOutput{
		Pair:          pair,
		Prices:        quote.Prices,
		Opportunities: opportunity.Normalize(quote.Opportunities),
		AvailableOn:   quote.AvailableOn,
	}
	if out.Prices == nil {
		out.Prices = []domain.ExchangePrice{}
	}
	if out.AvailableOn == nil {
		out.AvailableOn = []string{}
	}
	return nil, out, nil
}

func (t *tools) refreshNow(ctx context.Context, _ *mcp.CallToolRequest, in RefreshInput) (*mcp.CallToolResult, job.RefreshState, error) {
	_, span := t.tracer.Start(ctx, "mcp.refresh")
	defer span.End()

	if in.IntervalSecs != nil {
		if err := t.refresh.SetInterval(*in.IntervalSecs); err != nil {
			return nil, job.RefreshState{}, err
		}
	}
	if in.Enabled != nil {
		t.refresh.SetEnabled(*in.Enabled)
	}
	t.refresh.ManualRefresh()
	return nil, t.refresh.State(), nil
}

var runStdioFunc = func(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

var listenAndServeFunc = func(srv *http.Server) error { return srv.ListenAndServe() }

// Serve runs server on stdio, or on streamable HTTP at bind:port, until ctx is done.
func Serve(ctx context.Context, server *mcp.Server, transport, bind string, port int) error {
	if transport != "http" {
		log.Info("MCP server listening on stdio")
		return runStdioFunc(ctx, server)
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
	srv := &http.Server{
		Addr:              net.JoinHostPort(bind, strconv.Itoa(port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("MCP server listening", "addr", srv.Addr)
	if err := listenAndServeFunc(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
