package domain

// Row is the canonical, display-ready shape of an opportunity. Every optional
// value is either real data or Placeholder.
type Row struct {
	Pair          string `json:"pair"`
	Buy           string `json:"buy"`
	BuyURL        string `json:"buy_url"`
	BuyPrice      string `json:"buy_price"`
	Sell          string `json:"sell"`
	SellURL       string `json:"sell_url"`
	SellPrice     string `json:"sell_price"`
	Profit        string `json:"profit"`
	VolumeCoin    string `json:"volume_coin"`
	VolumeUSD     string `json:"volume_usd"`
	ProfitPercent string `json:"profit_percent"`
	Lifetime      string `json:"lifetime"`
	Withdraw      string `json:"withdraw"`
	Deposit       string `json:"deposit"`
	Hedge         string `json:"hedge"`
}

// Column describes one sortable field of Row.
type Column struct {
	Key   string
	Label string
}

// Columns lists the displayed columns in table order. The first one is the default sort key.
var Columns = []Column{
	{Key: "pair", Label: "Pair"},
	{Key: "buy", Label: "Buy on"},
	{Key: "sell", Label: "Sell on"},
	{Key: "volume_coin", Label: "Volume"},
	{Key: "profit_percent", Label: "Profit %"},
	{Key: "lifetime", Label: "Lifetime"},
	{Key: "withdraw", Label: "Withdraw"},
	{Key: "deposit", Label: "Deposit"},
	{Key: "hedge", Label: "Hedge"},
}

// RowKeys lists every Row field key in struct order; it is the CSV header.
var RowKeys = []string{
	"pair", "buy", "buy_url", "buy_price", "sell", "sell_url", "sell_price", "profit",
	"volume_coin", "volume_usd", "profit_percent", "lifetime", "withdraw", "deposit", "hedge",
}

// Field returns the value stored under key.
func (r Row) Field(key string) (string, bool) {
	switch key {
	case "pair":
		return r.Pair, true
	case "buy":
		return r.Buy, true
	case "buy_url":
		return r.BuyURL, true
	case "buy_price":
		return r.BuyPrice, true
	case "sell":
		return r.Sell, true
	case "sell_url":
		return r.SellURL, true
	case "sell_price":
		return r.SellPrice, true
	case "profit":
		return r.Profit, true
	case "volume_coin":
		return r.VolumeCoin, true
	case "volume_usd":
		return r.VolumeUSD, true
	case "profit_percent":
		return r.ProfitPercent, true
	case "lifetime":
		return r.Lifetime, true
	case "withdraw":
		return r.Withdraw, true
	case "deposit":
		return r.Deposit, true
	case "hedge":
		return r.Hedge, true
	}
	return "", false
}

// IsRowKey reports whether key names a Row field.
func IsRowKey(key string) bool {
	_, ok := Row{}.Field(key)
	return ok
}

// Values returns the row's fields in RowKeys order.
func (r Row) Values() []string {
	out := make([]string, len(RowKeys))
	for i, k := range RowKeys {
		out[i], _ = r.Field(k)
	}
	return out
}
