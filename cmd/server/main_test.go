package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"arbitrage-scanner/internal/bot"
	"arbitrage-scanner/internal/config"
	"arbitrage-scanner/internal/domain"
	"arbitrage-scanner/internal/service"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
	defer restore()

	var botToken string
	startTelegramBotFunc = func(token string, cmds *bot.Commands) { botToken = token }
	var shutdownBounded bool
	shutdownHTTPServerFunc = func(ctx context.Context, srv *http.Server) error {
		_, shutdownBounded = ctx.Deadline()
		return nil
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
	if botToken != "token" {
		t.Fatalf("bot should receive the configured token, got %q", botToken)
	}
	if !shutdownBounded {
		t.Fatal("http shutdown should run with a deadline")
	}
}

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitTracer := initTracerFunc
	origNewProvider := newProviderFunc
	origStartTelegram := startTelegramBotFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			HTTPAddr:           ":0",
			AutoRefreshSecs:    10,
			RequestTimeoutSecs: 1,
			TelegramBotToken:   "token",
			LogLevel:           log.InfoLevel,
		}
	}
	initTracerFunc = func(ctx context.Context, component string, enabled bool) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newProviderFunc = func(trace.Tracer, *config.Config) service.OpportunityProvider { return stubProvider{} }
	startTelegramBotFunc = func(string, *bot.Commands) {}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(context.Context, *http.Server) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initTracerFunc = origInitTracer
		newProviderFunc = origNewProvider
		startTelegramBotFunc = origStartTelegram
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}

type stubProvider struct{}

func (stubProvider) FetchOpportunities(ctx context.Context) ([]domain.OpportunityRecord, error) {
	return []domain.OpportunityRecord{{Pair: "BTCUSDT", Buy: "Binance", Sell: "OKX"}}, nil
}

func (stubProvider) FetchPair(ctx context.Context, pair string) (*domain.PairQuote, error) {
	return &domain.PairQuote{Pair: pair}, nil
}
