package opportunity

import (
	"strings"

	"arbitrage-scanner/internal/domain"
)

// compiledCriteria is FilterCriteria with its text inputs parsed once.
type compiledCriteria struct {
	exchanges map[string]struct{}
	whitelist []string
	blacklist []string

	minAmount    float64
	hasMinAmount bool
	minProfit    float64
	hasMinProfit bool
	maxProfit    float64
	hasMaxProfit bool
}

func compile(c domain.FilterCriteria) compiledCriteria {
	cc := compiledCriteria{
		exchanges: make(map[string]struct{}, len(c.Exchanges)),
		whitelist: ParseTokens(c.Whitelist),
		blacklist: ParseTokens(c.Blacklist),
	}
	for _, ex := range c.Exchanges {
		cc.exchanges[strings.ToLower(strings.TrimSpace(ex))] = struct{}{}
	}
	cc.minAmount, cc.hasMinAmount = ParseNumber(c.MinAmount)
	cc.minProfit, cc.hasMinProfit = ParseNumber(c.MinProfit)
	cc.maxProfit, cc.hasMaxProfit = ParseNumber(c.MaxProfit)
	return cc
}

// Filter returns the rows passing every active clause of c, in input order.
// The exchange clause is always active: both legs must be selected.
func Filter(rows []domain.Row, c domain.FilterCriteria) []domain.Row {
	cc := compile(c)
	out := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		if cc.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether a single row passes c.
func Match(r domain.Row, c domain.FilterCriteria) bool {
	return compile(c).match(r)
}

func (cc compiledCriteria) match(r domain.Row) bool {
	if !cc.hasExchange(r.Buy) || !cc.hasExchange(r.Sell) {
		return false
	}

	base := BaseAsset(r.Pair)
	if len(cc.whitelist) > 0 && !containsToken(cc.whitelist, base) {
		return false
	}
	if len(cc.blacklist) > 0 && containsToken(cc.blacklist, base) {
		return false
	}

	if cc.hasMinAmount {
		vol, ok := ParseNumber(r.VolumeUSD)
		if !ok || vol < cc.minAmount {
			return false
		}
	}

	if cc.hasMinProfit || cc.hasMaxProfit {
		pct, ok := ParseNumber(r.ProfitPercent)
		if !ok {
			return false
		}
		if cc.hasMinProfit && pct < cc.minProfit {
			return false
		}
		if cc.hasMaxProfit && pct > cc.maxProfit {
			return false
		}
	}
	return true
}

func (cc compiledCriteria) hasExchange(name string) bool {
	_, ok := cc.exchanges[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func containsToken(tokens []string, base string) bool {
	for _, t := range tokens {
		if t == base {
			return true
		}
	}
	return false
}
