package memo

import (
	"sync"
	"sync/atomic"
)

// Stats is a snapshot of a table's counters.
type Stats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// Table memoizes values of type V keyed by K.
type Table[K comparable, V any] struct {
	name string

	mu    sync.RWMutex
	items map[K]V

	hits    atomic.Uint64
	misses  atomic.Uint64
	metrics *Metrics
}

// New creates an empty table. The name labels exported metrics.
func New[K comparable, V any](name string) *Table[K, V] {
	return &Table[K, V]{name: name, items: make(map[K]V)}
}

// Name returns the label the table was created with.
func (t *Table[K, V]) Name() string {
	return t.name
}

// Instrument attaches Prometheus metrics. Passing nil detaches them.
func (t *Table[K, V]) Instrument(m *Metrics) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.metrics = m
	t.metrics.size(t.name, len(t.items))
}

// Get returns the memoized value for k and records a hit or a miss.
func (t *Table[K, V]) Get(k K) (V, bool) {
	t.mu.RLock()
	v, ok := t.items[k]
	m := t.metrics
	t.mu.RUnlock()

	if ok {
		t.hits.Add(1)
		m.hit(t.name)
	} else {
		t.misses.Add(1)
		m.miss(t.name)
	}
	return v, ok
}

// Put stores v under k, replacing any previous entry.
func (t *Table[K, V]) Put(k K, v V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items[k] = v
	t.metrics.size(t.name, len(t.items))
}

// Delete drops the entry for k. Deleting a missing key is a no-op.
func (t *Table[K, V]) Delete(k K) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.items, k)
	t.metrics.size(t.name, len(t.items))
}

// Clear drops every entry. Counters are kept.
func (t *Table[K, V]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.items)
	t.metrics.size(t.name, 0)
}

// Len returns the number of entries.
func (t *Table[K, V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

// Stats returns a snapshot of the counters.
func (t *Table[K, V]) Stats() Stats {
	return Stats{Hits: t.hits.Load(), Misses: t.misses.Load(), Size: t.Len()}
}
