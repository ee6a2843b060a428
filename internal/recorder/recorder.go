package recorder

// LookupEvent records one caller-facing stock detail lookup. Outcome is one
// of "ok", "not_found", "invalid_data", or "error".
type LookupEvent struct {
	Symbol     string
	Outcome    string
	DurationMs int64
}

// RefreshEvent records one scheduled cache refresh pass over the watchlist.
type RefreshEvent struct {
	Symbols    int
	Failed     int
	DurationMs int64
}

// UsageEvent records one usage sample of the users collection.
type UsageEvent struct {
	SampledUsers    int
	ActiveUsers     int
	PrivilegedUsers int
}

// Recorder persists telemetry events for offline analysis. Implementations
// are fire-and-forget sinks: callers log failures and move on, and recording
// never sits on the read path.
type Recorder interface {
	RecordLookup(evt *LookupEvent) error
	RecordRefresh(evt *RefreshEvent) error
	RecordUsage(evt *UsageEvent) error
	Close() error
}
