package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"StockDesk/internal/recorder"
	"StockDesk/internal/stocks"
	"StockDesk/internal/usage"
	"StockDesk/internal/watchlist"
)

// Scheduler manages all cron tasks: keeping the detail cache warm for the
// watchlist and sampling the users collection.
type Scheduler struct {
	Cron      *cron.Cron
	Service   *stocks.Service
	Watchlist *watchlist.Manager
	Usage     *usage.Aggregator
	Recorder  recorder.Recorder
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, svc *stocks.Service, wl *watchlist.Manager, agg *usage.Aggregator, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Service:   svc,
		Watchlist: wl,
		Usage:     agg,
		Recorder:  rec,
		Ctx:       ctx,
	}
}

// RegisterAll registers the refresh and usage tasks.
func (s *Scheduler) RegisterAll(refreshCron, usageCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(usageCron, s.usageTask); err != nil {
		return fmt.Errorf("register usage task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info().Msg("scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (for RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

// refreshTask drops and rewarms the cached detail of every watchlist
// symbol, so interactive reads inside the TTL window stay off the store.
// Individual symbol failures are counted, logged, and skipped.
func (s *Scheduler) refreshTask() {
	symbols := s.Watchlist.Symbols()
	log.Info().Int("symbols", len(symbols)).Msg("running watchlist refresh")
	start := time.Now()

	failed := 0
	for _, sym := range symbols {
		if s.Ctx.Err() != nil {
			return
		}
		s.Service.InvalidateSymbol(sym)
		if _, err := s.Service.StockDetail(s.Ctx, sym); err != nil {
			failed++
			log.Warn().Err(err).Str("symbol", sym).Msg("refresh failed for symbol")
		}
	}

	if err := s.Recorder.RecordRefresh(&recorder.RefreshEvent{
		Symbols:    len(symbols),
		Failed:     failed,
		DurationMs: time.Since(start).Milliseconds(),
	}); err != nil {
		log.Error().Err(err).Msg("record refresh event")
	}
}

// usageTask samples the users collection and records the tallies.
func (s *Scheduler) usageTask() {
	log.Info().Msg("running usage sample")
	report, err := s.Usage.Sample(s.Ctx)
	if err != nil {
		log.Error().Err(err).Msg("usage sample failed")
		return
	}
	log.Info().
		Int("sampled", report.SampledUsers).
		Int("active", report.ActiveUsers).
		Msg("usage sample complete")

	if err := s.Recorder.RecordUsage(&recorder.UsageEvent{
		SampledUsers:    report.SampledUsers,
		ActiveUsers:     report.ActiveUsers,
		PrivilegedUsers: report.PrivilegedUsers,
	}); err != nil {
		log.Error().Err(err).Msg("record usage event")
	}
}
