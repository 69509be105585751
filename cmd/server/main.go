package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arbitrage-scanner/internal/bot"
	"arbitrage-scanner/internal/config"
	"arbitrage-scanner/internal/handler"
	"arbitrage-scanner/internal/job"
	"arbitrage-scanner/internal/provider"
	"arbitrage-scanner/internal/service"
	"arbitrage-scanner/pkg/tracing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "arbitrage-scanner/docs"
)

var (
	loadEnvFunc     = godotenv.Load
	loadConfigFunc  = config.Load
	initTracerFunc  = tracing.InitTracer
	newProviderFunc = func(tracer trace.Tracer, cfg *config.Config) service.OpportunityProvider {
		return provider.NewArbitrageProvider(tracer, cfg.APIBaseURL,
			time.Duration(cfg.RequestTimeoutSecs)*time.Second, cfg.APIRateLimitPerMin)
	}
	newOpportunityServiceFunc = service.NewOpportunityService
	newRefreshControllerFunc  = job.NewRefreshController
	startControllerFunc       = func(ctx context.Context, c *job.RefreshController) { c.Start(ctx) }
	startTelegramBotFunc      = bot.StartTelegramBot
	newHandlerFunc            = handler.New
	newRouterFunc             = gin.New
	setupSignalNotify         = signal.Notify
	waitForSignalFunc         = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc       = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc    = func(ctx context.Context, srv *http.Server) error { return srv.Shutdown(ctx) }
)

// @title           Arbitrage Scanner API
// @version         1.0
// @description     Filtered and sorted view of cross-exchange arbitrage opportunities pulled from the scanner backend.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()
	log.SetLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx, "arbitrage-scanner-server", cfg.TracingEnabled)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer tracing.Shutdown(tp)

	// Opportunity pipeline: provider -> service <- refresh controller
	opportunities := newOpportunityServiceFunc(tracer, newProviderFunc(tracer, cfg),
		time.Duration(cfg.RequestTimeoutSecs)*time.Second)
	controller := newRefreshControllerFunc(tracer, opportunities, cfg.AutoRefreshSecs, cfg.AutoRefreshEnabled)
	startControllerFunc(ctx, controller)

	// Start Telegram bot
	startTelegramBotFunc(cfg.TelegramBotToken, bot.NewCommands(opportunities, controller, cfg.TelegramTopLimit))

	// Create handlers and routes
	h := newHandlerFunc(tracer, opportunities, controller)

	r := newRouterFunc()
	r.Use(gin.Recovery(), handler.RequestLogger(), otelgin.Middleware("arbitrage-scanner-server"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(shutdownCtx, srv); err != nil {
		log.Fatal("Server forced to shutdown", "err", err)
	}

	log.Info("Server exiting")
}
