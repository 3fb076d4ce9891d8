package registry

import (
	"cmp"
	"errors"
	"maps"
	"slices"
	"sync"
)

// ErrFrozen indicates a mutation was attempted on a frozen table.
var ErrFrozen = errors.New("registry is frozen")

// Table is a thread-safe map from ordered keys to values.
// It uses sync.RWMutex because tables are read far more often than written.
type Table[K cmp.Ordered, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	frozen  bool
}

// New creates an empty, unfrozen table.
func New[K cmp.Ordered, V any]() *Table[K, V] {
	return &Table[K, V]{
		entries: make(map[K]V),
	}
}

// Register inserts or overwrites the value for key.
// It reports whether an existing value was replaced.
func (t *Table[K, V]) Register(key K, value V) (replaced bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen {
		return false, ErrFrozen
	}
	_, replaced = t.entries[key]
	t.entries[key] = value
	return replaced, nil
}

// RegisterMany inserts all entries. Nothing is written if the table is frozen.
func (t *Table[K, V]) RegisterMany(entries map[K]V) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen {
		return ErrFrozen
	}
	maps.Copy(t.entries, entries)
	return nil
}

// Get returns the value for key and whether it exists.
func (t *Table[K, V]) Get(key K) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[key]
	return v, ok
}

// Has reports whether key exists.
func (t *Table[K, V]) Has(key K) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[key]
	return ok
}

// Keys returns all keys in ascending order.
func (t *Table[K, V]) Keys() []K {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Sorted(maps.Keys(t.entries))
}

// Len returns the number of entries.
func (t *Table[K, V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Range calls fn for each entry in ascending key order until fn returns
// false. It iterates over a snapshot taken under the read lock.
func (t *Table[K, V]) Range(fn func(K, V) bool) {
	t.mu.RLock()
	snapshot := maps.Clone(t.entries)
	t.mu.RUnlock()

	for _, k := range slices.Sorted(maps.Keys(snapshot)) {
		if !fn(k, snapshot[k]) {
			return
		}
	}
}

// Freeze makes the table read-only. Freezing twice is a no-op.
func (t *Table[K, V]) Freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frozen = true
}

// Frozen reports whether Freeze has been called.
func (t *Table[K, V]) Frozen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frozen
}
