// Package statestore persists grid query state so a grid comes back the way the user
// left it.
package statestore

import (
	"context"
	"sync"

	"github.com/gnemet/gridengine"
)

// Memory keeps state in process.
type Memory struct {
	mu     sync.Mutex
	states map[string]gridengine.State
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{states: make(map[string]gridengine.State)}
}

func (m *Memory) Get(_ context.Context, key string) (*gridengine.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.states[key]
	if !ok {
		return nil, nil
	}
	st.ColumnFilters = append([]gridengine.ActiveFilter(nil), st.ColumnFilters...)
	return &st, nil
}

func (m *Memory) Set(_ context.Context, key string, st gridengine.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st.ColumnFilters = append([]gridengine.ActiveFilter(nil), st.ColumnFilters...)
	m.states[key] = st
	return nil
}
