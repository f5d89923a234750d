package gates

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/flowplot/pkg/errors"
)

// MemoryStore keeps styles in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	styles map[string]Style
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(styles ...Style) *MemoryStore {
	m := &MemoryStore{styles: make(map[string]Style, len(styles))}
	for _, s := range styles {
		m.styles[s.ID] = s
	}
	return m
}

func (m *MemoryStore) StyleFor(_ context.Context, id string) (Style, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.styles[id]
	if !ok {
		return Style{}, notFound(id)
	}
	return s, nil
}

func (m *MemoryStore) SetColor(_ context.Context, id, color string) error {
	if err := errors.ValidateColor(color); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.styles[id]
	if !ok {
		return notFound(id)
	}
	s.Stroke, s.Fill = color, color
	m.styles[id] = s
	return nil
}

func (m *MemoryStore) List(context.Context) ([]Style, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Style, 0, len(m.styles))
	for _, s := range m.styles {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Style) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *MemoryStore) Put(_ context.Context, s Style) error {
	if err := validate(s); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.styles[s.ID] = s
	return nil
}

func (m *MemoryStore) Close() error { return nil }
