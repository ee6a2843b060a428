package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StockDesk/internal/config"
	"StockDesk/internal/docstore"
	"StockDesk/internal/recorder"
	"StockDesk/internal/scheduler"
	"StockDesk/internal/server"
	"StockDesk/internal/stocks"
	"StockDesk/internal/usage"
	"StockDesk/internal/watchlist"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Msg("StockDesk starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// Open the document store
	badgerStore, err := docstore.OpenBadger(cfg.Store.BadgerPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open document store")
	}
	defer badgerStore.Close()
	if cfg.Store.SeedFile != "" {
		n, err := seedStore(badgerStore, cfg.Store.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.Store.SeedFile).Msg("seed document store")
		}
		log.Info().Int("documents", n).Msg("document store seeded")
	}
	store := docstore.NewBreakerStore("docstore", badgerStore)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init watchlist
	wl, err := watchlist.NewManager(cfg.Watchlist.StateFile, cfg.Watchlist.DefaultSymbols)
	if err != nil {
		log.Fatal().Err(err).Msg("init watchlist")
	}

	// Init service pipeline
	cache := stocks.NewDetailCache(cfg.Cache.TTL, nil)
	svc := stocks.NewService(store, cache, stocks.Options{
		SummaryWindow: cfg.Summary.WindowBars,
		SeriesLimit:   cfg.Summary.SeriesLimit,
	})
	agg := usage.NewAggregator(store, cfg.Usage.SampleSize, nil)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, svc, wl, agg, rec)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.UsageCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Optional: warm the cache immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, refreshing watchlist now")
		go sched.RunRefreshNow()
	}

	// Start HTTP server
	srv := server.New(cfg.Server.Addr, svc, wl, agg, rec, cfg.Server.AdminToken)
	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.Run(ctx) }()

	log.Info().Msg("StockDesk is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info().Msg("shutdown signal received, stopping...")
		cancel()
		<-srvErr
	case err := <-srvErr:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
		cancel()
	}
	log.Info().Msg("StockDesk stopped")
}

// seedStore loads a JSON file of path -> fields documents into the store.
// Seeding is an ops convenience; the running service never writes.
func seedStore(store *docstore.BadgerStore, file string) (int, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return 0, err
	}
	var docs map[string]map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		return 0, err
	}
	for path, fields := range docs {
		if err := store.Put(path, fields); err != nil {
			return 0, err
		}
	}
	return len(docs), nil
}
