package stocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockDesk/internal/model"
)

// fakeClock is a manually advanced clock for TTL tests.
type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func detailLoader(calls *int, detail *model.StockDetail, err error) func(context.Context) (*model.StockDetail, error) {
	return func(context.Context) (*model.StockDetail, error) {
		*calls++
		return detail, err
	}
}

func TestGetOrLoad_HitWithinTTL(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := NewDetailCache(10*time.Minute, clk.Now)
	want := &model.StockDetail{Symbol: "AAPL"}
	calls := 0

	got, err := c.GetOrLoad(context.Background(), "AAPL", detailLoader(&calls, want, nil))
	require.NoError(t, err)
	require.Same(t, want, got)
	require.Equal(t, 1, calls)

	clk.Advance(10 * time.Minute) // exactly at the TTL boundary still counts as fresh
	got, err = c.GetOrLoad(context.Background(), "AAPL", detailLoader(&calls, nil, errors.New("must not be called")))
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, 1, calls)
	assert.Equal(t, CacheStats{Hits: 1, Misses: 1}, c.Stats())
}

func TestGetOrLoad_ReloadsAfterTTL(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := NewDetailCache(10*time.Minute, clk.Now)
	calls := 0
	first := &model.StockDetail{Symbol: "AAPL"}

	_, err := c.GetOrLoad(context.Background(), "AAPL", detailLoader(&calls, first, nil))
	require.NoError(t, err)

	clk.Advance(10*time.Minute + time.Second)
	second := &model.StockDetail{Symbol: "AAPL"}
	got, err := c.GetOrLoad(context.Background(), "AAPL", detailLoader(&calls, second, nil))
	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.Equal(t, 2, calls)
}

func TestGetOrLoad_FailuresAreNeverCached(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := NewDetailCache(10*time.Minute, clk.Now)
	calls := 0
	boom := errors.New("store down")

	_, err := c.GetOrLoad(context.Background(), "AAPL", detailLoader(&calls, nil, boom))
	require.ErrorIs(t, err, boom)

	// The next call must retry the loader, not serve the failure.
	want := &model.StockDetail{Symbol: "AAPL"}
	got, err := c.GetOrLoad(context.Background(), "AAPL", detailLoader(&calls, want, nil))
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, 2, calls)
}

func TestGetOrLoad_CanceledLoadIsDiscarded(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := NewDetailCache(10*time.Minute, clk.Now)

	ctx, cancel := context.WithCancel(context.Background())
	loaded := &model.StockDetail{Symbol: "AAPL"}
	got, err := c.GetOrLoad(ctx, "AAPL", func(context.Context) (*model.StockDetail, error) {
		cancel() // caller moves on while the load is in flight
		return loaded, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)

	// The late result must not have been applied to the cache.
	calls := 0
	fresh := &model.StockDetail{Symbol: "AAPL"}
	got, err = c.GetOrLoad(context.Background(), "AAPL", detailLoader(&calls, fresh, nil))
	require.NoError(t, err)
	assert.Same(t, fresh, got)
	assert.Equal(t, 1, calls)
}

func TestInvalidate(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := NewDetailCache(10*time.Minute, clk.Now)
	calls := 0
	_, err := c.GetOrLoad(context.Background(), "AAPL", detailLoader(&calls, &model.StockDetail{Symbol: "AAPL"}, nil))
	require.NoError(t, err)

	c.Invalidate("AAPL")
	_, err = c.GetOrLoad(context.Background(), "AAPL", detailLoader(&calls, &model.StockDetail{Symbol: "AAPL"}, nil))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCacheEntriesAreIndependentPerSymbol(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := NewDetailCache(10*time.Minute, clk.Now)
	aaplCalls, msftCalls := 0, 0

	_, err := c.GetOrLoad(context.Background(), "AAPL", detailLoader(&aaplCalls, &model.StockDetail{Symbol: "AAPL"}, nil))
	require.NoError(t, err)
	_, err = c.GetOrLoad(context.Background(), "MSFT", detailLoader(&msftCalls, &model.StockDetail{Symbol: "MSFT"}, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, aaplCalls)
	assert.Equal(t, 1, msftCalls)
}
