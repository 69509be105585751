package opportunity

import "strings"

// quoteAssets is matched longest first so "BUSD" wins over "USD".
var quoteAssets = []string{"BUSD", "TUSD", "USDT", "USDC", "USD", "BTC", "ETH", "TRY", "DAI"}

// SplitPair splits a ticker such as "BTCUSDT", "BTC-USDT" or "btc_usdt" into
// upper-cased base and quote assets.
func SplitPair(pair string) (base, quote string) {
	p := strings.ToUpper(strings.TrimSpace(pair))
	if i := strings.IndexAny(p, "-_/"); i > 0 {
		return p[:i], p[i+1:]
	}
	for _, q := range quoteAssets {
		if len(p) > len(q) && strings.HasSuffix(p, q) {
			return p[:len(p)-len(q)], q
		}
	}
	if len(p) > 3 {
		return p[:len(p)-3], p[len(p)-3:]
	}
	return p, ""
}

// BaseAsset returns the base asset of pair.
func BaseAsset(pair string) string {
	base, _ := SplitPair(pair)
	return base
}

// ParseTokens splits a comma separated currency list into upper-cased tokens,
// dropping empty entries.
func ParseTokens(list string) []string {
	var out []string
	for _, tok := range strings.Split(list, ",") {
		tok = strings.ToUpper(strings.TrimSpace(tok))
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
