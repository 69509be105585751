package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arbitrage-scanner/internal/config"
	"arbitrage-scanner/internal/job"
	"arbitrage-scanner/internal/mcpserver"
	"arbitrage-scanner/internal/provider"
	"arbitrage-scanner/internal/service"
	"arbitrage-scanner/pkg/tracing"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc     = godotenv.Load
	loadConfigFunc  = config.Load
	initTracerFunc  = tracing.InitTracer
	newProviderFunc = func(tracer trace.Tracer, cfg *config.Config) service.OpportunityProvider {
		return provider.NewArbitrageProvider(tracer, cfg.APIBaseURL,
			time.Duration(cfg.RequestTimeoutSecs)*time.Second, cfg.APIRateLimitPerMin)
	}
	serveFunc         = mcpserver.Serve
	setupSignalNotify = signal.Notify
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()
	log.SetLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, "arbitrage-scanner-mcp", cfg.TracingEnabled)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer tracing.Shutdown(tp)

	opportunities := service.NewOpportunityService(tracer, newProviderFunc(tracer, cfg),
		time.Duration(cfg.RequestTimeoutSecs)*time.Second)
	controller := job.NewRefreshController(tracer, opportunities, cfg.AutoRefreshSecs, cfg.AutoRefreshEnabled)
	controller.Start(ctx)

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	server := mcpserver.New(tracer, opportunities, controller)
	if err := serveFunc(ctx, server, cfg.MCPTransport, cfg.MCPHTTPBind, cfg.MCPHTTPPort); err != nil {
		log.Error("MCP server stopped", "err", err)
	}

	cancel()
	log.Info("MCP server exited")
}
