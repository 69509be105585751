package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"arbitrage-scanner/internal/config"
	"arbitrage-scanner/internal/domain"
	"arbitrage-scanner/internal/service"
	"arbitrage-scanner/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type providerStub struct {
	records  []domain.OpportunityRecord
	err      error
	quote    *domain.PairQuote
	lastPair string
}

func (p *providerStub) FetchOpportunities(ctx context.Context) ([]domain.OpportunityRecord, error) {
	return p.records, p.err
}

func (p *providerStub) FetchPair(ctx context.Context, pair string) (*domain.PairQuote, error) {
	p.lastPair = pair
	if p.err != nil {
		return nil, p.err
	}
	return p.quote, nil
}

func fixtureRecords() []domain.OpportunityRecord {
	return []domain.OpportunityRecord{
		{
			Pair: "BTCUSDT", Buy: "Binance", Sell: "OKX",
			BuyPrice: domain.S("100"), SellPrice: domain.S("102"), Profit: domain.S("2"),
			VolumeUSD: domain.S("1500"),
		},
		{
			Pair: "ETHUSDT", Buy: "Bybit", Sell: "Gate",
			BuyPrice: domain.S("50"), SellPrice: domain.S("50.5"), Profit: domain.S("0.5"),
			VolumeUSD: domain.S("200"),
		},
	}
}

func stubDeps(t *testing.T, p *providerStub) *config.Config {
	t.Helper()
	origEnv, origCfg, origTracer, origProvider, origRun := loadEnvFunc, loadConfigFunc, initTracerFunc, newProviderFunc, runProgramFunc
	t.Cleanup(func() {
		loadEnvFunc, loadConfigFunc, initTracerFunc, newProviderFunc, runProgramFunc = origEnv, origCfg, origTracer, origProvider, origRun
	})

	cfg := &config.Config{
		APIBaseURL:         "http://backend.test",
		RequestTimeoutSecs: 5,
		APIRateLimitPerMin: 30,
		AutoRefreshSecs:    10,
		AutoRefreshEnabled: false,
		LogLevel:           log.InfoLevel,
	}
	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config { return cfg }
	initTracerFunc = func(ctx context.Context, component string, enabled bool) (*sdktrace.TracerProvider, trace.Tracer, error) {
		return sdktrace.NewTracerProvider(), trace.NewNoopTracerProvider().Tracer("test"), nil
	}
	newProviderFunc = func(tracer trace.Tracer, c *config.Config) service.OpportunityProvider {
		return p
	}
	return cfg
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListSortsByProfitPercent(t *testing.T) {
	stubDeps(t, &providerStub{records: fixtureRecords()})

	out, err := run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	btc := strings.Index(out, "BTCUSDT")
	eth := strings.Index(out, "ETHUSDT")
	if btc < 0 || eth < 0 || btc > eth {
		t.Fatalf("expected BTCUSDT before ETHUSDT, got:\n%s", out)
	}
	if !strings.Contains(out, "2.00") || !strings.Contains(out, "2 of 2 opportunities") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestListAppliesFiltersAndLimit(t *testing.T) {
	stubDeps(t, &providerStub{records: fixtureRecords()})

	out, err := run(t, "list", "--min-amount", "1000")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(out, "ETHUSDT") || !strings.Contains(out, "1 of 1") {
		t.Fatalf("min-amount not applied:\n%s", out)
	}

	out, err = run(t, "list", "--sort", "pair", "--order", "asc", "-n", "1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "BTCUSDT") || strings.Contains(out, "ETHUSDT") || !strings.Contains(out, "1 of 2") {
		t.Fatalf("limit not applied:\n%s", out)
	}
}

func TestListExchangeSelection(t *testing.T) {
	stubDeps(t, &providerStub{records: fixtureRecords()})

	out, err := run(t, "list", "--exchanges", "bybit,gate")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(out, "BTCUSDT") || !strings.Contains(out, "ETHUSDT") {
		t.Fatalf("exchange selection not applied:\n%s", out)
	}

	out, err = run(t, "list", "--exchanges", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No opportunities match (2 fetched)") {
		t.Fatalf("empty selection should hide every row:\n%s", out)
	}
}

func TestListRejectsUnknownSortKey(t *testing.T) {
	stubDeps(t, &providerStub{records: fixtureRecords()})

	if _, err := run(t, "list", "--sort", "nope"); err == nil {
		t.Fatal("expected unknown column error")
	}
}

func TestListFailsWhenBackendFails(t *testing.T) {
	stubDeps(t, &providerStub{err: errors.New("connection refused")})

	_, err := run(t, "list")
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestAPIURLFlagOverridesConfig(t *testing.T) {
	cfg := stubDeps(t, &providerStub{records: fixtureRecords()})

	if _, err := run(t, "--api-url", "http://other.test", "list"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if cfg.APIBaseURL != "http://other.test" {
		t.Fatalf("expected overridden base url, got %q", cfg.APIBaseURL)
	}
}

func TestExportWritesFile(t *testing.T) {
	stubDeps(t, &providerStub{records: fixtureRecords()})
	path := filepath.Join(t.TempDir(), "out", "opps.csv")

	out, err := run(t, "export", "-o", path, "--whitelist", "btc")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Exported 1 rows to "+path) {
		t.Fatalf("unexpected output: %s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "pair,buy,") || !strings.HasPrefix(lines[1], "BTCUSDT,Binance,") {
		t.Fatalf("unexpected csv:\n%s", data)
	}
}

func TestExportToStdout(t *testing.T) {
	stubDeps(t, &providerStub{records: fixtureRecords()})

	out, err := run(t, "export", "-o", "-")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(out, "pair,buy,") || strings.Count(out, "\n") != 3 {
		t.Fatalf("unexpected csv:\n%s", out)
	}
}

func TestExportNothing(t *testing.T) {
	stubDeps(t, &providerStub{})
	path := filepath.Join(t.TempDir(), "empty.csv")

	out, err := run(t, "export", "-o", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Nothing to export") {
		t.Fatalf("unexpected output: %s", out)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file, stat err %v", err)
	}
}

func TestExportNothingToStdout(t *testing.T) {
	stubDeps(t, &providerStub{})

	out, err := run(t, "export", "-o", "-")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out != "Nothing to export\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestPairPrintsPrices(t *testing.T) {
	price := 101.5
	p := &providerStub{quote: &domain.PairQuote{
		Pair: "BTCUSDT",
		Prices: []domain.ExchangePrice{
			{Exchange: "Binance", Price: &price},
			{Exchange: "OKX", Error: "timeout"},
		},
		Opportunities: fixtureRecords()[:1],
	}}
	stubDeps(t, p)

	out, err := run(t, "pair", "btcusdt")
	if err != nil {
		t.Fatalf("pair: %v", err)
	}
	if p.lastPair != "BTCUSDT" {
		t.Fatalf("expected upper-cased pair, got %q", p.lastPair)
	}
	for _, want := range []string{"Binance", "101.5", "error: timeout", "Buy on"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPairNotListed(t *testing.T) {
	stubDeps(t, &providerStub{quote: &domain.PairQuote{Pair: "FOOBAR"}})

	out, err := run(t, "pair", "FOOBAR")
	if err != nil {
		t.Fatalf("pair: %v", err)
	}
	if !strings.Contains(out, "not listed") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestPairRequiresArgument(t *testing.T) {
	stubDeps(t, &providerStub{})

	if _, err := run(t, "pair"); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestTUIRunsProgram(t *testing.T) {
	stubDeps(t, &providerStub{records: fixtureRecords()})

	var got tea.Model
	runProgramFunc = func(m tea.Model) error {
		got = m
		return nil
	}

	if _, err := run(t, "tui", "-o", "custom.csv"); err != nil {
		t.Fatalf("tui: %v", err)
	}
	if _, ok := got.(*tui.Model); !ok {
		t.Fatalf("expected *tui.Model, got %T", got)
	}
}

func TestTracerFailureAborts(t *testing.T) {
	stubDeps(t, &providerStub{})
	initTracerFunc = func(ctx context.Context, component string, enabled bool) (*sdktrace.TracerProvider, trace.Tracer, error) {
		return nil, nil, errors.New("boom")
	}

	if _, err := run(t, "list"); err == nil {
		t.Fatal("expected tracer error")
	}
}
