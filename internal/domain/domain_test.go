package domain

import (
	"encoding/json"
	"testing"
)

func TestScalarUnmarshal(t *testing.T) {
	var rec OpportunityRecord
	body := `{"pair":"BTCUSDT","buy":"Binance","sell":"Bybit","buy_price":100.5,"sell_price":"101","profit":null,"lifetime":"2m 15s","withdraw":{"bad":1}}`
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.BuyPrice != S("100.5") {
		t.Fatalf("expected numeric text, got %+v", rec.BuyPrice)
	}
	if rec.SellPrice != S("101") {
		t.Fatalf("expected string text, got %+v", rec.SellPrice)
	}
	if rec.Profit.Valid || rec.VolumeUSD.Valid || rec.Withdraw.Valid {
		t.Fatalf("expected missing fields to be invalid: %+v", rec)
	}
	if rec.Lifetime.OrPlaceholder() != "2m 15s" || rec.Hedge.OrPlaceholder() != Placeholder {
		t.Fatalf("unexpected placeholder handling: %+v", rec)
	}
}

func TestRowFieldCoversKeys(t *testing.T) {
	for _, k := range RowKeys {
		if !IsRowKey(k) {
			t.Fatalf("key %s not addressable", k)
		}
	}
	for _, c := range Columns {
		if !IsRowKey(c.Key) {
			t.Fatalf("column %s not addressable", c.Key)
		}
	}
	if IsRowKey("nope") {
		t.Fatal("unexpected key accepted")
	}
	if len(Row{}.Values()) != len(RowKeys) {
		t.Fatal("values length mismatch")
	}
}

func TestAutoRefreshOptions(t *testing.T) {
	if !IsAutoRefreshOption(DefaultAutoRefreshSecs) {
		t.Fatal("default interval must be an option")
	}
	if IsAutoRefreshOption(7) {
		t.Fatal("7s is not an option")
	}
}

func TestCriteriaExchangeToggle(t *testing.T) {
	c := DefaultCriteria()
	off := c.WithExchangeToggled("okx")
	if off.HasExchange("OKX") {
		t.Fatal("OKX should be deselected")
	}
	if !c.HasExchange("OKX") {
		t.Fatal("toggle must not mutate the original")
	}
	on := off.WithExchangeToggled("OKX")
	if !on.HasExchange("OKX") {
		t.Fatal("OKX should be selected again")
	}
}

func TestCanonicalExchange(t *testing.T) {
	if ex, ok := CanonicalExchange(" kucoin "); !ok || ex != "KuCoin" {
		t.Fatalf("unexpected canonical form %q %v", ex, ok)
	}
	if _, ok := CanonicalExchange("FTX"); ok {
		t.Fatal("FTX is not in the universe")
	}
}

func TestParseDirection(t *testing.T) {
	if ParseDirection("ASC") != Ascending || ParseDirection("") != Descending {
		t.Fatal("unexpected direction parsing")
	}
	if Ascending.Reverse() != Descending {
		t.Fatal("reverse broken")
	}
}
