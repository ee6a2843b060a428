package stocks

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockDesk/internal/faults"
	"StockDesk/internal/model"
)

func barsFromCloses(closes ...float64) model.PriceSeries {
	series := make(model.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = model.PriceBar{
			Date:  fmt.Sprintf("2024-03-%02d", i+1),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return series
}

func TestSummarize_ChangeFromPreviousClose(t *testing.T) {
	series := barsFromCloses(100, 105, 103)
	sum, err := Summarize("AAPL", series, 0)
	require.NoError(t, err)
	assert.Equal(t, 103.0, sum.LastValue)
	assert.Equal(t, -2.0, sum.Change)
	assert.InDelta(t, -1.905, sum.ChangePercent, 0.001)
	assert.Equal(t, 106.0, sum.PeriodHigh)
	assert.Equal(t, 99.0, sum.PeriodLow)
}

func TestSummarize_EmptySeriesNotFound(t *testing.T) {
	_, err := Summarize("AAPL", nil, 0)
	require.Error(t, err)
	assert.True(t, faults.IsNotFound(err))
	assert.Contains(t, err.Error(), "price history")
}

func TestSummarize_SingleBarHasZeroChange(t *testing.T) {
	sum, err := Summarize("AAPL", barsFromCloses(42), 0)
	require.NoError(t, err)
	assert.Equal(t, 42.0, sum.LastValue)
	assert.Zero(t, sum.Change)
	assert.Zero(t, sum.ChangePercent)
}

func TestSummarize_ZeroPreviousCloseAvoidsDivision(t *testing.T) {
	sum, err := Summarize("PENNY", barsFromCloses(0, 3), 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, sum.Change)
	assert.Zero(t, sum.ChangePercent)
}

func TestSummarize_WindowRestrictsExtrema(t *testing.T) {
	// The spike at the start must fall outside a 3-bar window.
	series := barsFromCloses(500, 100, 102, 104)
	sum, err := Summarize("AAPL", series, 3)
	require.NoError(t, err)
	assert.Equal(t, 105.0, sum.PeriodHigh)
	assert.Equal(t, 99.0, sum.PeriodLow)
	assert.Equal(t, 104.0, sum.LastValue)
	assert.Equal(t, 2.0, sum.Change)
}

func TestSummarize_WindowLargerThanSeries(t *testing.T) {
	sum, err := Summarize("AAPL", barsFromCloses(10, 20), 252)
	require.NoError(t, err)
	assert.Equal(t, 21.0, sum.PeriodHigh)
	assert.Equal(t, 9.0, sum.PeriodLow)
	assert.Equal(t, 10.0, sum.Change)
}
