package main

import (
	"context"
	"os"
	"testing"
	"time"

	"arbitrage-scanner/internal/config"
	"arbitrage-scanner/internal/domain"
	"arbitrage-scanner/internal/service"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	restore := stubSSHDeps()
	defer restore()

	var options int
	newWishServerFunc = func(ops ...ssh.Option) (*ssh.Server, error) {
		options = len(ops)
		return nil, nil
	}

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
	if options != 4 {
		t.Fatalf("expected address, host key, auth and middleware options, got %d", options)
	}
}

func stubSSHDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitTracer := initTracerFunc
	origNewProvider := newProviderFunc
	origNewWishServer := newWishServerFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			SSHPort:            2222,
			SSHHostKeyPath:     ".ssh/test_key",
			AutoRefreshSecs:    10,
			RequestTimeoutSecs: 1,
			LogLevel:           log.InfoLevel,
		}
	}
	initTracerFunc = func(ctx context.Context, component string, enabled bool) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newProviderFunc = func(trace.Tracer, *config.Config) service.OpportunityProvider { return emptyProvider{} }
	newWishServerFunc = func(ops ...ssh.Option) (*ssh.Server, error) {
		return nil, nil
	}
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initTracerFunc = origInitTracer
		newProviderFunc = origNewProvider
		newWishServerFunc = origNewWishServer
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
	}
}

type emptyProvider struct{}

func (emptyProvider) FetchOpportunities(ctx context.Context) ([]domain.OpportunityRecord, error) {
	return nil, nil
}

func (emptyProvider) FetchPair(ctx context.Context, pair string) (*domain.PairQuote, error) {
	return &domain.PairQuote{Pair: pair}, nil
}
