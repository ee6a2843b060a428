// Package docstore gives the stock data layer read access to a path
// addressed document store. Documents are loosely schematized field maps;
// interpreting them is the caller's job.
package docstore

import (
	"context"
	"errors"
	"sort"
	"strings"

	"StockDesk/internal/coerce"
)

// ErrNotExist reports that no document lives at the requested path. Absence
// is an ordinary answer, not a transport failure.
var ErrNotExist = errors.New("docstore: document does not exist")

// ErrCapabilityMissing reports that a scan asked for ordering or limiting
// the backing store cannot provide, typically a missing secondary index.
// Adapters map their store-specific diagnostic onto this sentinel so callers
// never string-match backend error text.
var ErrCapabilityMissing = errors.New("docstore: scan requires an index or sort capability the store does not provide")

// Document is one stored record.
type Document struct {
	Path   string
	Fields map[string]any
}

// ScanOptions controls ordering and volume of a prefix scan. OrderBy names a
// document field; an empty OrderBy orders by path.
type ScanOptions struct {
	OrderBy    string
	Descending bool
	Limit      int
}

// Store is the read-only surface the core consumes. Get returns ErrNotExist
// for absent documents. Scan visits the direct children of a path prefix.
// Both honor context cancellation but enforce no timeouts of their own.
type Store interface {
	Get(ctx context.Context, path string) (*Document, error)
	Scan(ctx context.Context, prefix string, opts ScanOptions) ([]*Document, error)
}

// childOf reports whether path is a direct child of prefix, e.g.
// "stocks/AAPL/prices/2024-03-01" under "stocks/AAPL/prices/".
func childOf(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := strings.TrimPrefix(path, prefix)
	return rest != "" && !strings.Contains(rest, "/")
}

// applyScanOptions sorts and truncates scan results in place of a store-side
// index. Field values compare numerically when both sides coerce to numbers
// and as strings otherwise.
func applyScanOptions(docs []*Document, opts ScanOptions) []*Document {
	less := func(a, b *Document) bool { return a.Path < b.Path }
	if opts.OrderBy != "" {
		key := opts.OrderBy
		less = func(a, b *Document) bool {
			return compareField(a.Fields[key], b.Fields[key]) < 0
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if opts.Descending {
			return less(docs[j], docs[i])
		}
		return less(docs[i], docs[j])
	})
	if opts.Limit > 0 && len(docs) > opts.Limit {
		docs = docs[:opts.Limit]
	}
	return docs
}

func compareField(a, b any) int {
	af, aerr := coerce.ToFinite(a)
	bf, berr := coerce.ToFinite(b)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, _ := a.(string)
	bs, _ := b.(string)
	return strings.Compare(as, bs)
}
