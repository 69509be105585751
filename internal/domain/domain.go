package domain

import "strings"

// Placeholder stands in for any missing or invalid cell value. It never parses as a number.
const Placeholder = "-"

// InertURL is used when the backend did not provide a trade link.
const InertURL = "#"

// Exchanges is the fixed exchange universe the filters expose.
var Exchanges = []string{
	"Binance", "Bybit", "KuCoin", "Mexc", "Gate",
	"BitGet", "OKX", "XT", "HTX",
}

// AutoRefreshOptions lists the accepted auto-refresh intervals, in seconds.
var AutoRefreshOptions = []int{5, 10, 20, 30, 60}

// DefaultAutoRefreshSecs is the interval used when nothing else is configured.
const DefaultAutoRefreshSecs = 10

// IsAutoRefreshOption reports whether secs is one of AutoRefreshOptions.
func IsAutoRefreshOption(secs int) bool {
	for _, opt := range AutoRefreshOptions {
		if opt == secs {
			return true
		}
	}
	return false
}

// CanonicalExchange returns the universe spelling of name, matched case-insensitively.
func CanonicalExchange(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, ex := range Exchanges {
		if strings.EqualFold(ex, name) {
			return ex, true
		}
	}
	return "", false
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection maps "asc"/"desc" (any case) to a Direction. Anything else is descending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Ascending)) {
		return Ascending
	}
	return Descending
}

func (d Direction) Reverse() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// FilterCriteria holds the raw filter inputs. Numeric bounds are kept as typed text;
// a bound that does not parse is inactive.
type FilterCriteria struct {
	Exchanges []string `json:"exchanges"`
	Whitelist string   `json:"whitelist"`
	Blacklist string   `json:"blacklist"`
	MinAmount string   `json:"min_amount"`
	MinProfit string   `json:"min_profit"`
	MaxProfit string   `json:"max_profit"`
}

// DefaultCriteria selects the whole exchange universe and leaves every other clause blank.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Exchanges: append([]string(nil), Exchanges...)}
}

// WithExchangeToggled returns a copy of c with exchange added to or removed from the selection.
func (c FilterCriteria) WithExchangeToggled(exchange string) FilterCriteria {
	out := c
	out.Exchanges = make([]string, 0, len(c.Exchanges)+1)
	found := false
	for _, ex := range c.Exchanges {
		if strings.EqualFold(ex, exchange) {
			found = true
			continue
		}
		out.Exchanges = append(out.Exchanges, ex)
	}
	if !found {
		out.Exchanges = append(out.Exchanges, exchange)
	}
	return out
}

// HasExchange reports whether exchange is selected.
func (c FilterCriteria) HasExchange(exchange string) bool {
	for _, ex := range c.Exchanges {
		if strings.EqualFold(ex, exchange) {
			return true
		}
	}
	return false
}
