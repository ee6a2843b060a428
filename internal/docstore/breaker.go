package docstore

import (
	"context"
	"errors"
	"time"

	cb "github.com/sony/gobreaker"
)

// BreakerStore shields callers from a flapping backend. ErrNotExist is a
// successful outcome and never counts against the breaker.
type BreakerStore struct {
	next Store
	cb   *cb.CircuitBreaker
}

// NewBreakerStore wraps next with a circuit breaker. Trips on 3 consecutive
// failures, or a >5% failure rate once 20 requests have been observed.
func NewBreakerStore(name string, next Store) *BreakerStore {
	st := cb.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts cb.Counts) bool {
		if counts.ConsecutiveFailures >= 3 {
			return true
		}
		total := counts.Requests
		if total < 20 {
			return false
		}
		return float64(counts.TotalFailures)/float64(total) > 0.05
	}
	return &BreakerStore{next: next, cb: cb.NewCircuitBreaker(st)}
}

func (b *BreakerStore) Get(ctx context.Context, path string) (*Document, error) {
	var absent bool
	v, err := b.cb.Execute(func() (any, error) {
		doc, err := b.next.Get(ctx, path)
		if errors.Is(err, ErrNotExist) {
			absent = true
			return nil, nil
		}
		return doc, err
	})
	if err != nil {
		return nil, err
	}
	if absent {
		return nil, ErrNotExist
	}
	return v.(*Document), nil
}

func (b *BreakerStore) Scan(ctx context.Context, prefix string, opts ScanOptions) ([]*Document, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.next.Scan(ctx, prefix, opts)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Document), nil
}
