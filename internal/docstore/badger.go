package docstore

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/timshannon/badgerhold/v4"
)

func init() {
	// Field maps are gob-encoded by badgerhold; the loose value types that
	// appear in provider documents must be registered up front.
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// storedDoc is the on-disk record. Parent is the containing collection path
// (prefix without the trailing slash) and is indexed so prefix scans avoid a
// full table walk.
type storedDoc struct {
	Path   string
	Parent string `badgerholdIndex:"Parent"`
	Fields map[string]any
}

// BadgerStore is a badgerhold-backed Store. Ordering and limiting are
// applied on the read side, so scans never depend on a store-side index
// beyond the parent lookup and ErrCapabilityMissing does not arise here.
type BadgerStore struct {
	store *badgerhold.Store
}

// OpenBadger opens (or creates) the document store at dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir
	opts.Logger = nil // silence badger's default logger; zerolog owns output
	st, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerStore{store: st}, nil
}

func (b *BadgerStore) Get(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var d storedDoc
	if err := b.store.Get(path, &d); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return &Document{Path: d.Path, Fields: d.Fields}, nil
}

func (b *BadgerStore) Scan(ctx context.Context, prefix string, opts ScanOptions) ([]*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	parent := strings.TrimSuffix(prefix, "/")
	var recs []storedDoc
	if err := b.store.Find(&recs, badgerhold.Where("Parent").Eq(parent).Index("Parent")); err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, err)
	}
	docs := make([]*Document, 0, len(recs))
	for i := range recs {
		docs = append(docs, &Document{Path: recs[i].Path, Fields: recs[i].Fields})
	}
	return applyScanOptions(docs, opts), nil
}

// Put writes a document. Writes exist for seeding and ops tooling only; the
// stock data layer itself is read-only against this store.
func (b *BadgerStore) Put(path string, fields map[string]any) error {
	parent := ""
	if i := strings.LastIndex(path, "/"); i >= 0 {
		parent = path[:i]
	}
	rec := storedDoc{Path: path, Parent: parent, Fields: fields}
	if err := b.store.Upsert(path, rec); err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	return nil
}

func (b *BadgerStore) Close() error {
	return b.store.Close()
}
