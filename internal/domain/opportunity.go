package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Scalar is an optional JSON scalar kept in its textual form, so numbers keep the
// representation the backend sent and strings are passed through untouched.
type Scalar struct {
	Text  string
	Valid bool
}

// S builds a valid Scalar. Mostly useful in tests and fixtures.
func S(text string) Scalar {
	return Scalar{Text: text, Valid: true}
}

func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = Scalar{}
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Scalar{Text: str, Valid: true}
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		// Not a scalar; treat as missing rather than failing the whole record.
		*s = Scalar{}
		return nil
	}
	*s = Scalar{Text: string(b), Valid: true}
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Text)
}

// OrPlaceholder returns the text, or Placeholder when missing or blank.
func (s Scalar) OrPlaceholder() string {
	return s.Or(Placeholder)
}

func (s Scalar) Or(fallback string) string {
	if !s.Valid || strings.TrimSpace(s.Text) == "" {
		return fallback
	}
	return s.Text
}

// ExchangePrice is one exchange quote for a pair.
type ExchangePrice struct {
	Exchange string   `json:"exchange"`
	Price    *float64 `json:"price"`
	Error    string   `json:"error,omitempty"`
}

// OpportunityRecord is the raw record returned by GET /arbitrage/all.
// Only Pair, Buy and Sell are always present.
type OpportunityRecord struct {
	Pair       string          `json:"pair"`
	Buy        string          `json:"buy"`
	BuyPrice   Scalar          `json:"buy_price"`
	BuyURL     Scalar          `json:"buy_url"`
	Sell       string          `json:"sell"`
	SellPrice  Scalar          `json:"sell_price"`
	SellURL    Scalar          `json:"sell_url"`
	Profit     Scalar          `json:"profit"`
	VolumeCoin Scalar          `json:"volume_coin"`
	VolumeUSD  Scalar          `json:"volume_usd"`
	Lifetime   Scalar          `json:"lifetime"`
	Withdraw   Scalar          `json:"withdraw"`
	Deposit    Scalar          `json:"deposit"`
	Hedge      Scalar          `json:"hedge"`
	AllPrices  []ExchangePrice `json:"all_prices,omitempty"`
}

// OpportunitiesResponse is the body of GET /arbitrage/all.
type OpportunitiesResponse struct {
	Opportunities []OpportunityRecord `json:"opportunities"`
	Count         int                 `json:"count"`
}

// PairQuote is the body of GET /arbitrage?pair=XXX.
type PairQuote struct {
	Pair          string              `json:"pair"`
	Prices        []ExchangePrice     `json:"prices"`
	Opportunities []OpportunityRecord `json:"opportunities"`
	AvailableOn   []string            `json:"available_on"`
}
