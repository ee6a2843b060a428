package stocks

import (
	"StockDesk/internal/coerce"
	"StockDesk/internal/faults"
	"StockDesk/internal/model"
)

// Per-field spelling priority for raw price records. Close-like spellings
// come strictly before previous-close spellings: a previous close can
// understate intraday movement, so it is only ever a last resort.
var (
	closeKeys  = []string{"close", "c", "adjClose", "price", "regularMarketPrice", "previousClose", "prevClose"}
	openKeys   = []string{"open", "o"}
	highKeys   = []string{"high", "h", "dayHigh"}
	lowKeys    = []string{"low", "l", "dayLow"}
	volumeKeys = []string{"volume", "v"}
)

// NormalizeBar maps one raw per-period record into a canonical PriceBar.
// Close is derived first; open, high, and low each independently fall back
// to that close when their own field is absent or non-finite, so a day with
// no explicit range collapses to a single-point bar. Close itself never
// falls back to open, high, or low. Volume stays absent when missing so
// consumers can tell "no trade data" from "zero volume".
func NormalizeBar(fields map[string]any, dateKey string) (model.PriceBar, error) {
	c, err := coerce.FirstFinite(fields, closeKeys...)
	if err != nil {
		return model.PriceBar{}, faults.InvalidData("price bar", dateKey, "no usable close price")
	}
	bar := model.PriceBar{Date: dateKey, Close: c}

	if v, err := coerce.FirstFinite(fields, openKeys...); err == nil {
		bar.Open = v
	} else {
		bar.Open = c
	}
	if v, err := coerce.FirstFinite(fields, highKeys...); err == nil {
		bar.High = v
	} else {
		bar.High = c
	}
	if v, err := coerce.FirstFinite(fields, lowKeys...); err == nil {
		bar.Low = v
	} else {
		bar.Low = c
	}
	if v, err := coerce.FirstFinite(fields, volumeKeys...); err == nil {
		bar.Volume = &v
	}
	return bar, nil
}
