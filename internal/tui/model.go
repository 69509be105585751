// Package tui renders the opportunity table as a Bubble Tea program, locally
// or inside an SSH session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"arbitrage-scanner/internal/domain"
	"arbitrage-scanner/internal/export"
	"arbitrage-scanner/internal/job"
	"arbitrage-scanner/internal/opportunity"
	"arbitrage-scanner/internal/service"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Source is what the table reads from. *service.OpportunityService satisfies it.
type Source interface {
	State() service.State
	View(criteria domain.FilterCriteria, sort opportunity.SortState) ([]domain.Row, *service.Snapshot, error)
	PairQuote(ctx context.Context, pair string) (*domain.PairQuote, error)
	Subscribe() (<-chan struct{}, func())
}

// Controller drives refreshes. *job.RefreshController satisfies it.
type Controller interface {
	State() job.RefreshState
	ManualRefresh() uint64
	SetEnabled(enabled bool)
	SetInterval(secs int) error
}

type mode int

const (
	modeTable mode = iota
	modeFilters
	modeExchanges
	modePair
)

type stateChangedMsg struct{}

type pairResultMsg struct {
	seq   uint64
	pair  string
	quote *domain.PairQuote
	err   error
}

type exportDoneMsg struct {
	path string
	err  error
}

var filterLabels = []string{"Whitelist", "Blacklist", "Min amount $", "Min profit %", "Max profit %"}

type Model struct {
	source     Source
	controller Controller
	exportPath string

	criteria domain.FilterCriteria
	sort     opportunity.SortState
	column   int

	rows  []domain.Row
	table table.Model

	mode       mode
	inputs     []textinput.Model
	focus      int
	exCursor   int
	pairInput  textinput.Model
	pairResult *pairResultMsg
	pairSeq    uint64
	history    PairHistory
	historyPos int

	message string
	width   int
	height  int

	updates     <-chan struct{}
	unsubscribe func()
	closeOnce   sync.Once
}

// NewModel subscribes to source. Call Close when the program ends.
func NewModel(source Source, controller Controller) *Model {
	m := &Model{
		source:     source,
		controller: controller,
		exportPath: export.DefaultFilename,
		criteria:   domain.DefaultCriteria(),
		sort:       opportunity.NewSortState(),
		historyPos: -1,
	}

	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	m.table.SetStyles(tableStyles())

	for i, label := range filterLabels {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-13s ", label)
		ti.CharLimit = 128
		if i >= 2 {
			ti.Placeholder = "any"
		} else {
			ti.Placeholder = "BTC, ETH"
		}
		m.inputs = append(m.inputs, ti)
	}

	m.pairInput = textinput.New()
	m.pairInput.Prompt = "Pair: "
	m.pairInput.Placeholder = "BTCUSDT"
	m.pairInput.CharLimit = 32
	m.pairInput.ShowSuggestions = true

	m.updates, m.unsubscribe = source.Subscribe()
	m.refreshRows()
	return m
}

// SetExportPath changes where e writes the CSV file.
func (m *Model) SetExportPath(path string) {
	m.exportPath = path
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-9, 5))
	if width > 0 {
		m.table.SetWidth(width)
	}
}

// Close stops listening for row updates.
// Safe to call from several goroutines.
func (m *Model) Close() {
	m.closeOnce.Do(func() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
	})
}

func (m *Model) Init() tea.Cmd {
	return waitForChange(m.updates)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case stateChangedMsg:
		m.refreshRows()
		return m, waitForChange(m.updates)
	case pairResultMsg:
		// A reply to an older lookup must not replace the current one.
		if msg.seq != m.pairSeq {
			return m, nil
		}
		m.pairResult = &msg
		if msg.err == nil {
			m.history.Add(msg.pair)
		}
		return m, nil
	case exportDoneMsg:
		switch {
		case errors.Is(msg.err, export.ErrNoRows):
			m.message = "Nothing to export"
		case msg.err != nil:
			m.message = "Export failed: " + msg.err.Error()
		default:
			m.message = "Exported to " + msg.path
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Close()
			return m, tea.Quit
		}
		switch m.mode {
		case modeFilters:
			return m.updateFilters(msg)
		case modeExchanges:
			return m.updateExchanges(msg)
		case modePair:
			return m.updatePair(msg)
		default:
			return m.updateTable(msg)
		}
	}
	return m, nil
}

func (m *Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	switch msg.String() {
	case "q":
		m.Close()
		return m, tea.Quit
	case "left", "h":
		m.column = (m.column - 1 + len(domain.Columns)) % len(domain.Columns)
		m.table.SetColumns(m.columns())
	case "right", "l":
		m.column = (m.column + 1) % len(domain.Columns)
		m.table.SetColumns(m.columns())
	case "s", "enter":
		next, err := m.sort.Toggle(domain.Columns[m.column].Key)
		if err != nil {
			m.message = err.Error()
			break
		}
		m.sort = next
		m.refreshRows()
	case "r":
		seq := m.controller.ManualRefresh()
		m.message = fmt.Sprintf("Refresh #%d requested", seq)
	case "a":
		m.controller.SetEnabled(!m.controller.State().Enabled)
	case "+", "=":
		m.stepInterval(1)
	case "-":
		m.stepInterval(-1)
	case "f":
		m.mode = modeFilters
		m.focus = 0
		return m, m.inputs[0].Focus()
	case "x":
		m.mode = modeExchanges
	case "p":
		m.mode = modePair
		m.historyPos = -1
		m.pairInput.SetSuggestions(m.pairSuggestions())
		return m, m.pairInput.Focus()
	case "e":
		rows := slices.Clone(m.rows)
		path := m.exportPath
		return m, func() tea.Msg {
			written, err := export.SaveFile(path, rows)
			return exportDoneMsg{path: written, err: err}
		}
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) stepInterval(step int) {
	options := domain.AutoRefreshOptions
	cur := slices.Index(options, m.controller.State().IntervalSecs)
	if cur < 0 {
		cur = slices.Index(options, domain.DefaultAutoRefreshSecs)
	}
	next := options[(cur+step+len(options))%len(options)]
	if err := m.controller.SetInterval(next); err != nil {
		m.message = err.Error()
	}
}

func (m *Model) updateFilters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.inputs[m.focus].Blur()
		m.mode = modeTable
		return m, nil
	case "tab", "down":
		return m, m.focusInput((m.focus + 1) % len(m.inputs))
	case "shift+tab", "up":
		return m, m.focusInput((m.focus - 1 + len(m.inputs)) % len(m.inputs))
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.applyInputs()
	return m, cmd
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) applyInputs() {
	m.criteria.Whitelist = m.inputs[0].Value()
	m.criteria.Blacklist = m.inputs[1].Value()
	m.criteria.MinAmount = m.inputs[2].Value()
	m.criteria.MinProfit = m.inputs[3].Value()
	m.criteria.MaxProfit = m.inputs[4].Value()
	m.refreshRows()
}

func (m *Model) updateExchanges(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "x", "q":
		m.mode = modeTable
	case "up", "k":
		m.exCursor = (m.exCursor - 1 + len(domain.Exchanges)) % len(domain.Exchanges)
	case "down", "j":
		m.exCursor = (m.exCursor + 1) % len(domain.Exchanges)
	case " ", "enter":
		m.criteria = m.criteria.WithExchangeToggled(domain.Exchanges[m.exCursor])
		m.refreshRows()
	case "a":
		m.criteria.Exchanges = slices.Clone(domain.Exchanges)
		m.refreshRows()
	case "n":
		m.criteria.Exchanges = []string{}
		m.refreshRows()
	}
	return m, nil
}

func (m *Model) updatePair(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pairInput.Blur()
		m.mode = modeTable
		return m, nil
	case "enter":
		pair := strings.ToUpper(strings.TrimSpace(m.pairInput.Value()))
		if pair == "" {
			return m, nil
		}
		m.pairInput.SetValue(pair)
		m.pairSeq++
		m.pairResult = &pairResultMsg{seq: m.pairSeq, pair: pair}
		return m, lookupPair(m.source, m.pairSeq, pair)
	case "ctrl+x":
		m.history.Clear()
		m.historyPos = -1
		return m, nil
	case "pgdown", "pgup":
		items := m.history.Items()
		if len(items) == 0 {
			return m, nil
		}
		if msg.String() == "pgdown" {
			m.historyPos = (m.historyPos + 1) % len(items)
		} else {
			m.historyPos = (m.historyPos - 1 + len(items)) % len(items)
		}
		m.pairInput.SetValue(items[m.historyPos])
		m.pairInput.CursorEnd()
		return m, nil
	}

	var cmd tea.Cmd
	m.pairInput, cmd = m.pairInput.Update(msg)
	m.pairInput.SetValue(strings.ToUpper(m.pairInput.Value()))
	return m, cmd
}

func lookupPair(source Source, seq uint64, pair string) tea.Cmd {
	return func() tea.Msg {
		quote, err := source.PairQuote(context.Background(), pair)
		return pairResultMsg{seq: seq, pair: pair, quote: quote, err: err}
	}
}

func (m *Model) pairSuggestions() []string {
	seen := make(map[string]struct{}, len(m.rows))
	out := make([]string, 0, len(m.rows))
	for _, r := range m.rows {
		if _, ok := seen[r.Pair]; ok {
			continue
		}
		seen[r.Pair] = struct{}{}
		out = append(out, r.Pair)
	}
	slices.Sort(out)
	return out
}

func (m *Model) refreshRows() {
	rows, _, err := m.source.View(m.criteria, m.sort)
	if err != nil {
		m.message = err.Error()
		return
	}
	m.rows = rows
	m.table.SetColumns(m.columns())
	m.table.SetRows(tableRows(rows))
}

func (m *Model) columns() []table.Column {
	cols := make([]table.Column, len(domain.Columns))
	for i, c := range domain.Columns {
		title := c.Label
		if c.Key == m.sort.Key {
			if m.sort.Direction == domain.Ascending {
				title += " ▲"
			} else {
				title += " ▼"
			}
		}
		if i == m.column {
			title = "›" + title
		}
		cols[i] = table.Column{Title: title, Width: columnWidths[c.Key]}
	}
	return cols
}

func tableRows(rows []domain.Row) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		cells := make(table.Row, len(domain.Columns))
		for j, c := range domain.Columns {
			cells[j], _ = r.Field(c.Key)
		}
		out[i] = cells
	}
	return out
}

// statusLine separates loading, failed and empty states.
func (m *Model) statusLine() string {
	st := m.source.State()
	snap := st.Snapshot

	var feed string
	switch {
	case st.Loading:
		feed = statusStyle.Render("Loading…")
	case snap.Status == service.StatusFailed:
		feed = errorStyle.Render("Fetch failed: " + snap.Err)
	case snap.Status == service.StatusIdle:
		feed = statusStyle.Render("Waiting for first fetch")
	case snap.Status == service.StatusEmpty || len(snap.Rows) == 0:
		feed = statusStyle.Render("No opportunities")
	case len(m.rows) == 0:
		feed = statusStyle.Render(fmt.Sprintf("0 of %d match the filters", len(snap.Rows)))
	default:
		feed = statusStyle.Render(fmt.Sprintf("%d of %d · updated %s", len(m.rows), len(snap.Rows), snap.FetchedAt.Format("15:04:05")))
	}

	rs := m.controller.State()
	auto := "auto off"
	if rs.Enabled {
		auto = "auto " + strconv.Itoa(rs.IntervalSecs) + "s"
	}
	return feed + statusStyle.Render(fmt.Sprintf("  |  %s  |  #%d", auto, rs.Trigger))
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Arbitrage Scanner"))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	switch m.mode {
	case modeFilters:
		b.WriteString(m.filtersView())
	case modeExchanges:
		b.WriteString(m.exchangesView())
	case modePair:
		b.WriteString(m.pairView())
	default:
		b.WriteString(m.table.View())
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(selectedStyle.Render(m.message))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m *Model) filtersView() string {
	lines := make([]string, len(m.inputs))
	for i := range m.inputs {
		lines[i] = m.inputs[i].View()
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) exchangesView() string {
	lines := make([]string, len(domain.Exchanges))
	for i, ex := range domain.Exchanges {
		mark := "[ ]"
		if m.criteria.HasExchange(ex) {
			mark = "[x]"
		}
		line := mark + " " + ex
		if i == m.exCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines[i] = line
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) pairView() string {
	var b strings.Builder
	b.WriteString(m.pairInput.View())
	b.WriteString("\n")

	if items := m.history.Items(); len(items) > 0 {
		b.WriteString(helpStyle.Render("Recent: " + strings.Join(items, "  ")))
		b.WriteString("\n")
	}

	if r := m.pairResult; r != nil {
		b.WriteString("\n")
		switch {
		case r.err != nil:
			b.WriteString(errorStyle.Render(fmt.Sprintf("%s: %v", r.pair, r.err)))
		case r.quote == nil:
			b.WriteString(statusStyle.Render("Looking up " + r.pair + "…"))
		default:
			b.WriteString(quoteView(r.pair, r.quote))
		}
	}
	return panelStyle.Render(b.String())
}

func quoteView(pair string, q *domain.PairQuote) string {
	if len(q.Prices) == 0 {
		return statusStyle.Render(pair + " is not listed on any tracked exchange")
	}
	lines := []string{titleStyle.Render(pair)}
	for _, p := range q.Prices {
		price := domain.Placeholder
		switch {
		case p.Price != nil:
			price = strconv.FormatFloat(*p.Price, 'f', -1, 64)
		case p.Error != "":
			price = errorStyle.Render("error: " + p.Error)
		}
		lines = append(lines, fmt.Sprintf("%-8s %s", p.Exchange, price))
	}
	rows := opportunity.Normalize(q.Opportunities)
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s -> %s  %s%%", r.Buy, r.Sell, r.ProfitPercent))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) help() string {
	switch m.mode {
	case modeFilters:
		return "tab/↑↓ field • enter/esc done"
	case modeExchanges:
		return "↑↓ move • space toggle • a all • n none • esc done"
	case modePair:
		return "enter look up • tab accept suggestion • pgup/pgdn history • ctrl+x clear history • esc back"
	default:
		return "←/→ column • s sort • r refresh • a auto • +/- interval • f filters • x exchanges • e export • p pair • q quit"
	}
}
