package watchlist

import (
	"sync"

	"github.com/rs/zerolog/log"

	"StockDesk/internal/model"
)

// Manager owns the tracked-symbol universe with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewManager creates a Manager, loading or initializing state from disk. A
// fresh state is seeded with the given default symbols.
func NewManager(filePath string, defaults []string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	if len(state.Symbols) == 0 {
		for _, s := range defaults {
			if sym := model.NormalizeSymbol(s); sym != "" {
				state.Symbols = append(state.Symbols, sym)
			}
		}
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Symbols returns a copy of the current universe in curated order.
func (m *Manager) Symbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.state.Symbols))
	copy(out, m.state.Symbols)
	return out
}

// Add appends a symbol to the universe. Blank input and duplicates are
// no-ops.
func (m *Manager) Add(symbol string) {
	sym := model.NormalizeSymbol(symbol)
	if sym == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.state.Symbols {
		if s == sym {
			return
		}
	}
	m.state.Symbols = append(m.state.Symbols, sym)
	if err := m.save(); err != nil {
		log.Error().Err(err).Msg("failed to save watchlist state")
	}
}

// Remove drops a symbol from the universe if present.
func (m *Manager) Remove(symbol string) {
	sym := model.NormalizeSymbol(symbol)
	if sym == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.state.Symbols {
		if s == sym {
			m.state.Symbols = append(m.state.Symbols[:i], m.state.Symbols[i+1:]...)
			if err := m.save(); err != nil {
				log.Error().Err(err).Msg("failed to save watchlist state")
			}
			return
		}
	}
}

// Contains reports whether the universe tracks the symbol.
func (m *Manager) Contains(symbol string) bool {
	sym := model.NormalizeSymbol(symbol)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.state.Symbols {
		if s == sym {
			return true
		}
	}
	return false
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
