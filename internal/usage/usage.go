// Package usage produces coarse usage counts by sampling the users
// collection. It follows the same coercion-and-tally approach as the pricing
// pipeline: loosely typed documents, priority-ordered field spellings, and a
// single pass over the sample.
package usage

import (
	"context"
	"fmt"
	"time"

	"StockDesk/internal/coerce"
	"StockDesk/internal/docstore"
	"StockDesk/internal/model"
)

// activeWithin is how recently a user must have been seen to count as
// active.
const activeWithin = 30 * 24 * time.Hour

var (
	lastSeenKeys   = []string{"lastSeen", "last_seen", "lastActive"}
	privilegedKeys = []string{"isAdmin", "privileged"}
	symbolListKeys = []string{"symbols", "watchlist"}
)

// Report is one point-in-time sample of the users collection.
type Report struct {
	SampledUsers     int            `json:"sampled_users"`
	ActiveUsers      int            `json:"active_users"`
	PrivilegedUsers  int            `json:"privileged_users"`
	WatchersBySymbol map[string]int `json:"watchers_by_symbol"`
	SampledAt        time.Time      `json:"sampled_at"`
}

// Aggregator samples user documents and tallies them.
type Aggregator struct {
	store      docstore.Store
	sampleSize int
	now        func() time.Time
}

// NewAggregator builds an aggregator reading at most sampleSize user
// documents per run. A nil clock defaults to time.Now.
func NewAggregator(store docstore.Store, sampleSize int, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{store: store, sampleSize: sampleSize, now: now}
}

// Sample scans up to sampleSize documents under users/ and tallies them.
// Individual fields that fail coercion are simply not counted; a document is
// never rejected outright, since usage counts are best-effort by nature.
func (a *Aggregator) Sample(ctx context.Context) (*Report, error) {
	docs, err := a.store.Scan(ctx, "users/", docstore.ScanOptions{Limit: a.sampleSize})
	if err != nil {
		return nil, fmt.Errorf("sample users: %w", err)
	}

	now := a.now()
	report := &Report{
		WatchersBySymbol: make(map[string]int),
		SampledAt:        now,
	}
	for _, doc := range docs {
		report.SampledUsers++
		if ts, err := coerce.FirstFinite(doc.Fields, lastSeenKeys...); err == nil {
			seen := time.Unix(int64(ts), 0)
			if now.Sub(seen) <= activeWithin {
				report.ActiveUsers++
			}
		}
		for _, k := range privilegedKeys {
			if b, ok := doc.Fields[k].(bool); ok && b {
				report.PrivilegedUsers++
				break
			}
		}
		for _, k := range symbolListKeys {
			list, ok := doc.Fields[k].([]any)
			if !ok {
				continue
			}
			for _, item := range list {
				if s, ok := item.(string); ok {
					if sym := model.NormalizeSymbol(s); sym != "" {
						report.WatchersBySymbol[sym]++
					}
				}
			}
			break
		}
	}
	return report, nil
}
