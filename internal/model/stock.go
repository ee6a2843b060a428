package model

import "strings"

// NormalizeSymbol canonicalizes an instrument symbol: trimmed and uppercased.
// A blank input normalizes to "" and means "no request", not a failure.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Metadata is the validated company record for a symbol. MarketCap is the
// display string produced by the formatter; records missing any field are
// rejected upstream, never patched.
type Metadata struct {
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
	MarketCap   string `json:"market_cap"`
}

// PriceBar is one canonical OHLCV period. Date is a calendar-day key in
// YYYY-MM-DD form, so lexicographic order is chronological order. Volume is
// nil when the source carried no trade data, which is distinct from zero.
// The low <= open,close <= high relation is not enforced: upstream data may
// violate it and values are preserved as given.
type PriceBar struct {
	Date   string   `json:"date"`
	Open   float64  `json:"open"`
	High   float64  `json:"high"`
	Low    float64  `json:"low"`
	Close  float64  `json:"close"`
	Volume *float64 `json:"volume,omitempty"`
}

// PriceSeries is ascending by date with one bar per date. All "most recent"
// and "previous" lookups depend on this ordering.
type PriceSeries []PriceBar

// Summary holds the statistics derived from one pass over a price window.
type Summary struct {
	PeriodHigh    float64 `json:"period_high"`
	PeriodLow     float64 `json:"period_low"`
	LastValue     float64 `json:"last_value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// StockDetail is the caller-facing merged record for a symbol. It is built
// once per cache miss and replaced, not mutated, on refresh.
type StockDetail struct {
	Symbol   string   `json:"symbol"`
	Metadata Metadata `json:"metadata"`
	Summary  Summary  `json:"summary"`
}
