package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetAbsent(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.Get(context.Background(), "stocks/AAPL")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestMemoryStore_ScanDirectChildrenOnly(t *testing.T) {
	m := NewMemoryStore()
	m.Put("stocks/AAPL/prices/2024-03-01", map[string]any{"close": 100.0, "date": "2024-03-01"})
	m.Put("stocks/AAPL/prices/2024-03-04", map[string]any{"close": 101.0, "date": "2024-03-04"})
	m.Put("stocks/AAPL/prices/2024-03-04/meta/audit", map[string]any{"x": 1})
	m.Put("stocks/AAPL", map[string]any{"name": "Apple"})

	docs, err := m.Scan(context.Background(), "stocks/AAPL/prices/", ScanOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "stocks/AAPL/prices/2024-03-01", docs[0].Path)
	assert.Equal(t, "stocks/AAPL/prices/2024-03-04", docs[1].Path)
}

func TestMemoryStore_ScanOrderAndLimit(t *testing.T) {
	m := NewMemoryStore()
	m.Put("stocks/AAPL/prices/a", map[string]any{"date": "2024-03-01"})
	m.Put("stocks/AAPL/prices/b", map[string]any{"date": "2024-03-05"})
	m.Put("stocks/AAPL/prices/c", map[string]any{"date": "2024-03-03"})

	docs, err := m.Scan(context.Background(), "stocks/AAPL/prices/",
		ScanOptions{OrderBy: "date", Descending: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "2024-03-05", docs[0].Fields["date"])
	assert.Equal(t, "2024-03-03", docs[1].Fields["date"])
}

func TestMemoryStore_ScanNumericOrdering(t *testing.T) {
	m := NewMemoryStore()
	m.Put("users/u1", map[string]any{"lastSeen": 9.0})
	m.Put("users/u2", map[string]any{"lastSeen": "100"})
	m.Put("users/u3", map[string]any{"lastSeen": 20.0})

	docs, err := m.Scan(context.Background(), "users/", ScanOptions{OrderBy: "lastSeen"})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "users/u1", docs[0].Path)
	assert.Equal(t, "users/u3", docs[1].Path)
	assert.Equal(t, "users/u2", docs[2].Path)
}

func TestMemoryStore_InjectedScanError(t *testing.T) {
	m := NewMemoryStore()
	m.SetScanError(ErrCapabilityMissing)
	_, err := m.Scan(context.Background(), "stocks/AAPL/prices/", ScanOptions{OrderBy: "date"})
	assert.ErrorIs(t, err, ErrCapabilityMissing)
}

func TestBreakerStore_AbsencePassesThroughWithoutTripping(t *testing.T) {
	m := NewMemoryStore()
	b := NewBreakerStore("test", m)
	for i := 0; i < 10; i++ {
		_, err := b.Get(context.Background(), "stocks/NOPE")
		require.ErrorIs(t, err, ErrNotExist)
	}
	m.Put("stocks/AAPL", map[string]any{"name": "Apple"})
	doc, err := b.Get(context.Background(), "stocks/AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple", doc.Fields["name"])
}

func TestBreakerStore_TripsOnConsecutiveFailures(t *testing.T) {
	m := NewMemoryStore()
	boom := errors.New("backend down")
	m.SetScanError(boom)
	b := NewBreakerStore("test", m)
	for i := 0; i < 3; i++ {
		_, err := b.Scan(context.Background(), "users/", ScanOptions{})
		require.ErrorIs(t, err, boom)
	}
	_, err := b.Scan(context.Background(), "users/", ScanOptions{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, boom)
}
