// Package stocks is the read/derive core: it resolves metadata and price
// documents out of the store, normalizes them into canonical bars, derives
// summary statistics, and serves merged stock details through a TTL cache.
package stocks

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"StockDesk/internal/docstore"
	"StockDesk/internal/model"
)

// Options tune the read volume of a detail load.
type Options struct {
	// SummaryWindow is the number of most recent bars the summary covers.
	// Zero means DefaultWindow.
	SummaryWindow int
	// SeriesLimit caps how many bars a detail load reads from the store.
	// Zero means SummaryWindow.
	SeriesLimit int
}

// Service orchestrates the pipeline behind the caller-facing operations.
type Service struct {
	store    docstore.Store
	resolver *Resolver
	cache    *DetailCache
	window   int
	limit    int
}

func NewService(store docstore.Store, cache *DetailCache, opts Options) *Service {
	window := opts.SummaryWindow
	if window <= 0 {
		window = DefaultWindow
	}
	limit := opts.SeriesLimit
	if limit <= 0 {
		limit = window
	}
	return &Service{
		store:    store,
		resolver: NewResolver(store),
		cache:    cache,
		window:   window,
		limit:    limit,
	}
}

// StockDetail returns the merged detail for a symbol, served from cache when
// fresh. A blank or whitespace-only symbol is an explicit no-op: no data, no
// error, and no store traffic, distinguishing "no request" from "failed
// request".
func (s *Service) StockDetail(ctx context.Context, symbol string) (*model.StockDetail, error) {
	sym := model.NormalizeSymbol(symbol)
	if sym == "" {
		return nil, nil
	}
	return s.cache.GetOrLoad(ctx, sym, func(ctx context.Context) (*model.StockDetail, error) {
		return s.loadDetail(ctx, sym)
	})
}

// loadDetail issues the metadata resolution and the price-summary load
// concurrently; the only synchronization point is waiting for both before
// the merge.
func (s *Service) loadDetail(ctx context.Context, sym string) (*model.StockDetail, error) {
	var (
		wg     sync.WaitGroup
		md     model.Metadata
		mdErr  error
		sum    model.Summary
		sumErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		md, mdErr = s.resolver.Resolve(ctx, sym)
	}()
	go func() {
		defer wg.Done()
		var series model.PriceSeries
		series, sumErr = s.loadSeries(ctx, sym, s.limit)
		if sumErr != nil {
			return
		}
		sum, sumErr = Summarize(sym, series, s.window)
	}()
	wg.Wait()

	if mdErr != nil {
		return nil, mdErr
	}
	if sumErr != nil {
		return nil, sumErr
	}
	return &model.StockDetail{Symbol: sym, Metadata: md, Summary: sum}, nil
}

// AllSummaries fans StockDetail out over the supplied symbol universe and
// returns whatever succeeded, in input order. Partial listing on partial
// failure is deliberate: a symbol that individually fails is dropped and
// logged, never surfaced to the listing caller.
func (s *Service) AllSummaries(ctx context.Context, symbols []string) []*model.StockDetail {
	results := make([]*model.StockDetail, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			detail, err := s.StockDetail(ctx, symbol)
			if err != nil {
				log.Warn().Err(err).Str("symbol", symbol).Msg("excluding symbol from listing")
				return
			}
			results[i] = detail
		}(i, symbol)
	}
	wg.Wait()

	out := make([]*model.StockDetail, 0, len(symbols))
	for _, d := range results {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

// PriceSeries returns the full normalized series for charting, unbounded by
// the summary window. The blank-symbol no-op contract applies here too.
func (s *Service) PriceSeries(ctx context.Context, symbol string) (model.PriceSeries, error) {
	sym := model.NormalizeSymbol(symbol)
	if sym == "" {
		return nil, nil
	}
	return s.loadSeries(ctx, sym, 0)
}

// loadSeries scans the per-day price documents for a symbol. A positive
// limit reads only the most recent bars (descending scan, re-sorted
// ascending locally); zero reads everything. Bars dedupe by date and sort on
// the date key, never arrival order.
func (s *Service) loadSeries(ctx context.Context, sym string, limit int) (model.PriceSeries, error) {
	prefix := "stocks/" + sym + "/prices/"
	opts := docstore.ScanOptions{OrderBy: "date"}
	if limit > 0 {
		opts.Descending = true
		opts.Limit = limit
	}
	docs, err := s.store.Scan(ctx, prefix, opts)
	if err != nil {
		if errors.Is(err, docstore.ErrCapabilityMissing) {
			return nil, fmt.Errorf("price history for %s needs store-side ordering on the date field: %w", sym, err)
		}
		return nil, err
	}

	byDate := make(map[string]model.PriceBar, len(docs))
	for _, doc := range docs {
		dateKey := path.Base(doc.Path)
		bar, err := NormalizeBar(doc.Fields, dateKey)
		if err != nil {
			return nil, err
		}
		byDate[dateKey] = bar
	}
	series := make(model.PriceSeries, 0, len(byDate))
	for _, bar := range byDate {
		series = append(series, bar)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series, nil
}

// CacheStats exposes the detail cache counters for health reporting.
func (s *Service) CacheStats() CacheStats { return s.cache.Stats() }

// InvalidateSymbol drops any cached detail for symbol.
func (s *Service) InvalidateSymbol(symbol string) {
	s.cache.Invalidate(model.NormalizeSymbol(symbol))
}
