package docstore

import (
	"context"
	"sync"
)

// MemoryStore is a map-backed Store for tests and local development. Its
// scan semantics mirror the badger adapter so either can stand behind the
// service.
type MemoryStore struct {
	mu      sync.RWMutex
	docs    map[string]map[string]any
	scanErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]any)}
}

// Put stores a document, replacing any existing one at the path.
func (m *MemoryStore) Put(path string, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	m.docs[path] = cp
}

// Delete removes the document at path, if any.
func (m *MemoryStore) Delete(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, path)
}

// SetScanError makes every subsequent Scan fail with err. Used to exercise
// the capability-missing path without a real backend.
func (m *MemoryStore) SetScanError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanErr = err
}

func (m *MemoryStore) Get(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	fields, ok := m.docs[path]
	if !ok {
		return nil, ErrNotExist
	}
	return &Document{Path: path, Fields: fields}, nil
}

func (m *MemoryStore) Scan(ctx context.Context, prefix string, opts ScanOptions) ([]*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	var out []*Document
	for path, fields := range m.docs {
		if childOf(path, prefix) {
			out = append(out, &Document{Path: path, Fields: fields})
		}
	}
	return applyScanOptions(out, opts), nil
}
