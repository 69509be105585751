// Package opportunity holds the pure row pipeline: normalization of backend records,
// filtering and numeric-aware sorting. Nothing here owns state, so every function is
// safe to call from concurrent goroutines.
package opportunity

import (
	"strings"

	"arbitrage-scanner/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Normalize maps raw records to rows, preserving order.
func Normalize(raw []domain.OpportunityRecord) []domain.Row {
	rows := make([]domain.Row, 0, len(raw))
	for _, rec := range raw {
		rows = append(rows, NormalizeRecord(rec))
	}
	return rows
}

// NormalizeRecord maps a single record. It never fails: bad optional fields
// become the placeholder.
func NormalizeRecord(rec domain.OpportunityRecord) domain.Row {
	return domain.Row{
		Pair:          rec.Pair,
		Buy:           rec.Buy,
		BuyURL:        rec.BuyURL.Or(domain.InertURL),
		BuyPrice:      rec.BuyPrice.OrPlaceholder(),
		Sell:          rec.Sell,
		SellURL:       rec.SellURL.Or(domain.InertURL),
		SellPrice:     rec.SellPrice.OrPlaceholder(),
		Profit:        rec.Profit.OrPlaceholder(),
		VolumeCoin:    rec.VolumeCoin.OrPlaceholder(),
		VolumeUSD:     rec.VolumeUSD.OrPlaceholder(),
		ProfitPercent: ProfitPercent(rec.Profit, rec.BuyPrice),
		Lifetime:      rec.Lifetime.OrPlaceholder(),
		Withdraw:      rec.Withdraw.OrPlaceholder(),
		Deposit:       rec.Deposit.OrPlaceholder(),
		Hedge:         rec.Hedge.OrPlaceholder(),
	}
}

// ProfitPercent returns profit/buyPrice*100 with two decimals, or the placeholder
// when either side is missing, not a number, or buyPrice is zero.
func ProfitPercent(profit, buyPrice domain.Scalar) string {
	p, ok := parseDecimal(profit)
	if !ok {
		return domain.Placeholder
	}
	b, ok := parseDecimal(buyPrice)
	if !ok || b.IsZero() {
		return domain.Placeholder
	}
	return p.Div(b).Mul(hundred).StringFixed(2)
}

func parseDecimal(s domain.Scalar) (decimal.Decimal, bool) {
	if !s.Valid {
		return decimal.Decimal{}, false
	}
	// Reject NaN/Inf spellings before decimal sees them.
	if _, ok := ParseNumber(s.Text); !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s.Text))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
