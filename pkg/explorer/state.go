package explorer

import (
	"maps"
	"sync"

	"github.com/matzehuels/walletgraph/pkg/graph"
	"github.com/matzehuels/walletgraph/pkg/pagination"
)

// State is everything one exploration session shows. States are values:
// update them by returning a modified copy from [Store.Update].
type State struct {
	Seed         string
	Graph        graph.Graph
	Pages        pagination.Book
	Expanded     map[string]bool // addresses with a completed expand; never mutated in place
	UserArranged bool            // nodes were moved by hand; automatic layout is off
	Selected     string
	Loading      bool   // initial load in flight
	Err          string // initial-load failure shown to the user
}

// NewState returns the empty state.
func NewState() State {
	return State{Graph: graph.Empty(), Expanded: map[string]bool{}}
}

// IsExpanded reports whether address had a completed expand.
func (s State) IsExpanded(address string) bool { return s.Expanded[address] }

// WithExpanded returns a copy of s with address added to the expanded set.
func (s State) WithExpanded(address string) State {
	next := make(map[string]bool, len(s.Expanded)+1)
	maps.Copy(next, s.Expanded)
	next[address] = true
	s.Expanded = next
	return s
}

// Store holds the current State.
type Store interface {
	// Snapshot returns the current state.
	Snapshot() State

	// Update replaces the state with fn(current) atomically and returns the
	// new state. fn must not block.
	Update(fn func(State) State) State
}

// MemoryStore is a mutex-guarded Store. Use [NewMemoryStore]; the zero
// value is not usable.
type MemoryStore struct {
	mu       sync.RWMutex
	state    State
	onChange []func(State)
}

// NewMemoryStore creates a store holding the empty state.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: NewState()}
}

// OnChange registers fn to run after every update with the new state.
// Callbacks run outside the lock, in registration order.
func (m *MemoryStore) OnChange(fn func(State)) {
	m.mu.Lock()
	m.onChange = append(m.onChange, fn)
	m.mu.Unlock()
}

// Snapshot implements Store.
func (m *MemoryStore) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Update implements Store.
func (m *MemoryStore) Update(fn func(State) State) State {
	m.mu.Lock()
	next := fn(m.state)
	m.state = next
	callbacks := m.onChange
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(next)
	}
	return next
}

var _ Store = (*MemoryStore)(nil)
