package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"arbitrage-scanner/internal/domain"
	"arbitrage-scanner/internal/job"
	"arbitrage-scanner/internal/opportunity"
	"arbitrage-scanner/internal/service"

	"github.com/charmbracelet/log"
	tele "gopkg.in/telebot.v3"
)

const maxTopLimit = 20

// OpportunitySource is the read side of service.OpportunityService.
type OpportunitySource interface {
	View(criteria domain.FilterCriteria, sort opportunity.SortState) ([]domain.Row, *service.Snapshot, error)
	Loading() bool
	PairQuote(ctx context.Context, pair string) (*domain.PairQuote, error)
}

// RefreshTrigger is the part of job.RefreshController the bot drives.
type RefreshTrigger interface {
	State() job.RefreshState
	ManualRefresh() uint64
}

type registrar interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

var newBotFunc = func(pref tele.Settings) (*tele.Bot, error) { return tele.NewBot(pref) }

// Commands renders the chat replies. It holds no chat state.
type Commands struct {
	source   OpportunitySource
	refresh  RefreshTrigger
	topLimit int
}

func NewCommands(source OpportunitySource, refresh RefreshTrigger, topLimit int) *Commands {
	if topLimit <= 0 {
		topLimit = 5
	}
	return &Commands{source: source, refresh: refresh, topLimit: topLimit}
}

func StartTelegramBot(token string, cmds *Commands) {
	if token == "" {
		log.Info("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := newBotFunc(pref)
	if err != nil {
		log.Error("failed to create Telegram bot", "err", err)
		return
	}

	register(b, cmds)

	log.Info("Telegram bot started")
	go b.Start()
}

func register(b registrar, cmds *Commands) {
	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})
	b.Handle("/top", func(c tele.Context) error {
		return c.Send(cmds.Top(c.Args()))
	})
	b.Handle("/status", func(c tele.Context) error {
		return c.Send(cmds.Status())
	})
	b.Handle("/refresh", func(c tele.Context) error {
		return c.Send(cmds.Refresh())
	})
	b.Handle("/pair", func(c tele.Context) error {
		return c.Send(cmds.Pair(context.Background(), c.Args()))
	})
}

// Top lists the best opportunities by profit percent across the whole exchange universe.
func (c *Commands) Top(args []string) string {
	limit := c.topLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return "Usage: /top [n]"
		}
		limit = min(n, maxTopLimit)
	}

	rows, snap, err := c.source.View(domain.DefaultCriteria(), opportunity.SortState{Key: "profit_percent", Direction: domain.Descending})
	if err != nil {
		return "Error: " + err.Error()
	}
	if len(rows) == 0 {
		return emptyMessage(snap, c.source.Loading())
	}

	rows = rows[:min(limit, len(rows))]
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d opportunities\n", len(rows))
	for i, r := range rows {
		fmt.Fprintf(&b, "%d. %s %s -> %s %s%% (vol $%s)\n", i+1, r.Pair, r.Buy, r.Sell, r.ProfitPercent, r.VolumeUSD)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Status reports the last fetch and the auto-refresh settings.
func (c *Commands) Status() string {
	rows, snap, err := c.source.View(domain.DefaultCriteria(), opportunity.NewSortState())
	if err != nil {
		return "Error: " + err.Error()
	}
	state := c.refresh.State()

	var b strings.Builder
	fmt.Fprintf(&b, "Feed: %s", snap.Status)
	if c.source.Loading() {
		b.WriteString(" (loading)")
	}
	fmt.Fprintf(&b, "\nOpportunities: %d", len(rows))
	if !snap.FetchedAt.IsZero() {
		fmt.Fprintf(&b, "\nUpdated: %s", snap.FetchedAt.UTC().Format(time.RFC3339))
	}
	if snap.Err != "" {
		fmt.Fprintf(&b, "\nLast error: %s", snap.Err)
	}
	if state.Enabled {
		fmt.Fprintf(&b, "\nAuto refresh: every %ds", state.IntervalSecs)
	} else {
		b.WriteString("\nAuto refresh: off")
	}
	return b.String()
}

func (c *Commands) Refresh() string {
	seq := c.refresh.ManualRefresh()
	return fmt.Sprintf("Refresh #%d requested", seq)
}

// Pair shows per-exchange prices for one pair.
func (c *Commands) Pair(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /pair BTCUSDT"
	}
	pair := strings.ToUpper(strings.TrimSpace(args[0]))
	quote, err := c.source.PairQuote(ctx, pair)
	if err != nil {
		return fmt.Sprintf("Error fetching %s: %v", pair, err)
	}
	if len(quote.Prices) == 0 {
		return fmt.Sprintf("%s is not listed on any tracked exchange", pair)
	}

	var b strings.Builder
	b.WriteString(pair)
	for _, p := range quote.Prices {
		switch {
		case p.Price != nil:
			fmt.Fprintf(&b, "\n%s: %s", p.Exchange, strconv.FormatFloat(*p.Price, 'f', -1, 64))
		case p.Error != "":
			fmt.Fprintf(&b, "\n%s: error (%s)", p.Exchange, p.Error)
		default:
			fmt.Fprintf(&b, "\n%s: %s", p.Exchange, domain.Placeholder)
		}
	}
	if len(quote.Opportunities) > 0 {
		fmt.Fprintf(&b, "\nOpportunities: %d", len(quote.Opportunities))
	}
	return b.String()
}

func emptyMessage(snap *service.Snapshot, loading bool) string {
	switch {
	case loading:
		return "Loading opportunities, try again shortly"
	case snap.Status == service.StatusFailed:
		return "Last fetch failed: " + snap.Err
	default:
		return "No opportunities right now"
	}
}
