package store

import (
	"context"
	"sync"

	"github.com/google/btree"
)

const btreeDegree = 16

// MemoryBackend keeps records in a map with a btree of ids for ordered
// listing.
type MemoryBackend[T Entity] struct {
	mu      sync.RWMutex
	order   *btree.BTreeG[int64]
	records map[int64]T
}

func NewMemoryBackend[T Entity]() *MemoryBackend[T] {
	return &MemoryBackend[T]{
		order:   btree.NewOrderedG[int64](btreeDegree),
		records: make(map[int64]T),
	}
}

func (m *MemoryBackend[T]) Insert(_ context.Context, rec T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := rec.EntityID()
	if _, ok := m.records[id]; ok {
		return ErrDuplicateID
	}
	m.records[id] = rec
	m.order.ReplaceOrInsert(id)
	return nil
}

func (m *MemoryBackend[T]) Update(_ context.Context, rec T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := rec.EntityID()
	if _, ok := m.records[id]; !ok {
		return ErrNoRecord
	}
	m.records[id] = rec
	return nil
}

func (m *MemoryBackend[T]) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return ErrNoRecord
	}
	delete(m.records, id)
	m.order.Delete(id)
	return nil
}

func (m *MemoryBackend[T]) Get(_ context.Context, id int64) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		var zero T
		return zero, ErrNoRecord
	}
	return rec, nil
}

func (m *MemoryBackend[T]) List(_ context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0, len(m.records))
	m.order.Ascend(func(id int64) bool {
		out = append(out, m.records[id])
		return true
	})
	return out, nil
}

// Len returns the number of records held.
func (m *MemoryBackend[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// load replaces the content with recs.
func (m *MemoryBackend[T]) load(recs []T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order.Clear(false)
	m.records = make(map[int64]T, len(recs))
	for _, rec := range recs {
		m.records[rec.EntityID()] = rec
		m.order.ReplaceOrInsert(rec.EntityID())
	}
}
