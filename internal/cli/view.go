package cli

import (
	"errors"
	"fmt"
	"strings"

	"arbitrage-scanner/internal/domain"
	"arbitrage-scanner/internal/export"
	"arbitrage-scanner/internal/opportunity"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// viewFlags are the filter and sort flags shared by list and export.
type viewFlags struct {
	exchanges []string
	whitelist string
	blacklist string
	minAmount string
	minProfit string
	maxProfit string
	sort      string
	order     string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.exchanges, "exchanges", nil,
		"Exchange selection (default: every tracked exchange)")
	cmd.Flags().StringVar(&f.whitelist, "whitelist", "", "Comma separated base assets to keep")
	cmd.Flags().StringVar(&f.blacklist, "blacklist", "", "Comma separated base assets to drop")
	cmd.Flags().StringVar(&f.minAmount, "min-amount", "", "Minimum volume in USD")
	cmd.Flags().StringVar(&f.minProfit, "min-profit", "", "Minimum profit percent")
	cmd.Flags().StringVar(&f.maxProfit, "max-profit", "", "Maximum profit percent")
	cmd.Flags().StringVar(&f.sort, "sort", "profit_percent", "Column key to sort by")
	cmd.Flags().StringVar(&f.order, "order", "desc", "Sort order: asc or desc")
}

func (f *viewFlags) criteria(cmd *cobra.Command) (domain.FilterCriteria, opportunity.SortState) {
	c := domain.DefaultCriteria()
	if cmd.Flags().Changed("exchanges") {
		c.Exchanges = []string{}
		for _, ex := range f.exchanges {
			if canonical, ok := domain.CanonicalExchange(ex); ok {
				ex = canonical
			}
			c.Exchanges = append(c.Exchanges, ex)
		}
	}
	c.Whitelist = f.whitelist
	c.Blacklist = f.blacklist
	c.MinAmount = f.minAmount
	c.MinProfit = f.minProfit
	c.MaxProfit = f.maxProfit
	return c, opportunity.SortState{Key: f.sort, Direction: domain.ParseDirection(f.order)}
}

func newListCommand(rt *runtime) *cobra.Command {
	var flags viewFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the filtered and sorted opportunities",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.fetchOnce(cmd.Context()); err != nil {
				return err
			}
			criteria, sortState := flags.criteria(cmd)
			rows, snap, err := rt.opportunities.View(criteria, sortState)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "No opportunities match (%d fetched)\n", len(snap.Rows))
				return nil
			}
			total := len(rows)
			if limit > 0 && limit < total {
				rows = rows[:limit]
			}
			fmt.Fprintln(out, renderTable(rows))
			fmt.Fprintf(out, "%d of %d opportunities\n", len(rows), total)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows to print (0 for all)")
	return cmd
}

func newExportCommand(rt *runtime) *cobra.Command {
	var flags viewFlags
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered and sorted opportunities as CSV",
		Long:  `Write the projection as RFC 4180 CSV. Use -o - to write to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.fetchOnce(cmd.Context()); err != nil {
				return err
			}
			criteria, sortState := flags.criteria(cmd)
			rows, _, err := rt.opportunities.View(criteria, sortState)
			if err != nil {
				return err
			}

			var path string
			if output == "-" {
				err = export.WriteCSV(cmd.OutOrStdout(), rows)
			} else {
				path, err = export.SaveFile(output, rows)
			}
			if errors.Is(err, export.ErrNoRows) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to export")
				return nil
			}
			if err != nil || output == "-" {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", len(rows), path)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", export.DefaultFilename, "Output file")
	return cmd
}

func renderTable(rows []domain.Row) string {
	headers := make([]string, len(domain.Columns))
	for i, c := range domain.Columns {
		headers[i] = c.Label
	}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		line := make([]string, len(domain.Columns))
		for j, c := range domain.Columns {
			line[j], _ = r.Field(c.Key)
		}
		cells[i] = line
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(cells...).
		String()
}

func formatPrice(p domain.ExchangePrice) string {
	switch {
	case p.Price != nil:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.8f", *p.Price), "0"), ".")
	case p.Error != "":
		return "error: " + p.Error
	default:
		return domain.Placeholder
	}
}
