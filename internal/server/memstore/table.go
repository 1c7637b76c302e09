// Package memstore holds the mock backend's tables in memory.
package memstore

import (
	"fmt"
	"sync"
)

// Table is an insertion-ordered set of records keyed by id. It is safe for
// concurrent use; values are copied in and out.
type Table[T any] struct {
	mu    sync.RWMutex
	id    func(T) string
	rows  map[string]T
	order []string
}

func NewTable[T any](id func(T) string) *Table[T] {
	return &Table[T]{id: id, rows: make(map[string]T)}
}

func (t *Table[T]) Insert(v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.id(v)
	if _, ok := t.rows[id]; ok {
		return fmt.Errorf("insert %s: %w", id, ErrConflict)
	}
	t.rows[id] = v
	t.order = append(t.order, id)
	return nil
}

func (t *Table[T]) Get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return v, nil
}

// Update applies fn to a copy of the record and stores the result unless fn
// fails. The id must not change.
func (t *Table[T]) Update(id string, fn func(*T) error) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	if err := fn(&v); err != nil {
		var zero T
		return zero, err
	}
	t.rows[id] = v
	return v, nil
}

func (t *Table[T]) Delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// Filter returns the matching records, newest first. A nil keep matches all.
func (t *Table[T]) Filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.order))
	for i := len(t.order) - 1; i >= 0; i-- {
		v := t.rows[t.order[i]]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
