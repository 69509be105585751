package cli

import (
	"fmt"
	"strings"

	"arbitrage-scanner/internal/opportunity"

	"github.com/spf13/cobra"
)

func newPairCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "pair <PAIR>",
		Short: "Show per-exchange prices for one pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := strings.ToUpper(strings.TrimSpace(args[0]))
			quote, err := rt.opportunities.PairQuote(cmd.Context(), pair)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", pair, err)
			}

			out := cmd.OutOrStdout()
			if len(quote.Prices) == 0 {
				fmt.Fprintf(out, "%s is not listed on any tracked exchange\n", pair)
				return nil
			}
			fmt.Fprintln(out, pair)
			for _, p := range quote.Prices {
				fmt.Fprintf(out, "  %-10s %s\n", p.Exchange, formatPrice(p))
			}
			if rows := opportunity.Normalize(quote.Opportunities); len(rows) > 0 {
				fmt.Fprintln(out, renderTable(rows))
			}
			return nil
		},
	}
}
