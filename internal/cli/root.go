// Package cli implements the arbscan command line: one-shot listing, CSV
// export, pair lookup and the local terminal UI.
package cli

import (
	"context"
	"fmt"
	"time"

	"arbitrage-scanner/internal/config"
	"arbitrage-scanner/internal/provider"
	"arbitrage-scanner/internal/service"
	"arbitrage-scanner/pkg/tracing"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
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
)

// runtime is the per-invocation wiring shared by every subcommand.
type runtime struct {
	cfg           *config.Config
	tracer        trace.Tracer
	opportunities *service.OpportunityService
	shutdown      func()
}

// NewRootCommand creates the arbscan root command.
func NewRootCommand() *cobra.Command {
	var apiURL string
	var verbose bool
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:   "arbscan",
		Short: "Browse cross-exchange arbitrage opportunities",
		Long: `arbscan pulls opportunities from the scanner backend, filters and sorts them.

Examples:
  arbscan list --min-profit 1 --sort profit_percent
  arbscan list --exchanges Binance,OKX --whitelist BTC,ETH
  arbscan export -o opportunities.csv --min-amount 500
  arbscan pair BTCUSDT
  arbscan tui`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loadEnvFunc()
			cfg := loadConfigFunc()
			if apiURL != "" {
				cfg.APIBaseURL = apiURL
			}
			if verbose {
				cfg.LogLevel = log.DebugLevel
			}
			log.SetLevel(cfg.LogLevel)

			tp, tracer, err := initTracerFunc(cmd.Context(), "arbitrage-scanner-cli", cfg.TracingEnabled)
			if err != nil {
				return fmt.Errorf("failed to initialize tracer: %w", err)
			}

			rt.cfg = cfg
			rt.tracer = tracer
			rt.opportunities = service.NewOpportunityService(tracer, newProviderFunc(tracer, cfg),
				time.Duration(cfg.RequestTimeoutSecs)*time.Second)
			rt.shutdown = func() { tracing.Shutdown(tp) }
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.shutdown != nil {
				rt.shutdown()
			}
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "",
		"Scanner backend base URL (overrides ARBITRAGE_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(newListCommand(rt))
	rootCmd.AddCommand(newExportCommand(rt))
	rootCmd.AddCommand(newPairCommand(rt))
	rootCmd.AddCommand(newTUICommand(rt))

	return rootCmd
}

// fetchOnce runs a single refresh and fails when the backend could not be read.
func (rt *runtime) fetchOnce(ctx context.Context) error {
	if err := rt.opportunities.Refresh(ctx, 1); err != nil {
		return fmt.Errorf("fetch opportunities: %w", err)
	}
	return nil
}
