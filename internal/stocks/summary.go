package stocks

import (
	"math"

	"StockDesk/internal/faults"
	"StockDesk/internal/model"
)

// DefaultWindow approximates one trading year of daily bars, the window
// behind the 52-week high/low.
const DefaultWindow = 252

// Summarize derives rolling extrema and the latest period-over-period change
// from a chronologically ascending series, restricted to the most recent
// window bars (DefaultWindow when window <= 0). One pass tracks the running
// high and low while shifting lastClose into previousClose at each step, so
// the series is never re-scanned per statistic.
//
// An empty series fails with NotFound. InvalidData is only reachable when
// every bar in the window carries non-finite extrema, which normalization
// already prevents.
func Summarize(symbol string, series model.PriceSeries, window int) (model.Summary, error) {
	if len(series) == 0 {
		return model.Summary{}, faults.NotFound("price history", symbol)
	}
	if window <= 0 {
		window = DefaultWindow
	}
	start := len(series) - window
	if start < 0 {
		start = 0
	}

	high := math.Inf(-1)
	low := math.Inf(1)
	var lastClose, previousClose float64
	for i, bar := range series[start:] {
		if bar.High > high {
			high = bar.High
		}
		if bar.Low < low {
			low = bar.Low
		}
		if i == 0 {
			// A single-bar window has no previous period; change comes out 0.
			lastClose = bar.Close
			previousClose = bar.Close
			continue
		}
		previousClose = lastClose
		lastClose = bar.Close
	}
	if math.IsInf(high, 0) || math.IsInf(low, 0) {
		return model.Summary{}, faults.InvalidData("price history", symbol, "no finite extrema in window")
	}

	change := lastClose - previousClose
	changePercent := 0.0
	if previousClose != 0 {
		changePercent = change / previousClose * 100
	}
	return model.Summary{
		PeriodHigh:    high,
		PeriodLow:     low,
		LastValue:     lastClose,
		Change:        change,
		ChangePercent: changePercent,
	}, nil
}
