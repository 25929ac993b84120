package neighbor

import (
	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/memo"
)

// Neighbor maps an item to its related items.
type Neighbor interface {
	Get(it graph.Item) (*graph.ItemSet, error)
	GetOmitting(it graph.Item, omit *graph.ItemSet) (*graph.ItemSet, error)
	GetOmittingItem(it graph.Item, omitted graph.Item) (*graph.ItemSet, error)
	Invalidate(it graph.Item)
	InvalidateAll()
	SetCaching(on bool)
}

// Factory builds a Neighbor from its parameters. Composite variants use r to
// build their inner stages.
type Factory func(p config.Params, r Resolver) (Neighbor, error)

// Resolver turns a component name into a configured Neighbor.
type Resolver interface {
	ResolveNeighbor(name string, p config.Params) (Neighbor, error)
}

// computeFunc is the uncached computation of a variant.
type computeFunc func(it graph.Item, omit *graph.ItemSet) (*graph.ItemSet, error)

// base implements the caching and omission entry points on top of a
// computeFunc.
type base struct {
	compute computeFunc
	caching bool
	cache   *memo.Table[graph.Handle, *graph.ItemSet]
}

func newBase(name string, caching bool, fn computeFunc) base {
	return base{compute: fn, caching: caching, cache: memo.New[graph.Handle, *graph.ItemSet](name)}
}

func (b *base) Get(it graph.Item) (*graph.ItemSet, error) {
	if b.caching {
		if s, ok := b.cache.Get(it.Handle()); ok {
			return s.Clone(), nil
		}
	}
	s, err := b.compute(it, nil)
	if err != nil {
		return nil, err
	}
	if b.caching {
		b.cache.Put(it.Handle(), s.Clone())
	}
	return s, nil
}

func (b *base) GetOmitting(it graph.Item, omit *graph.ItemSet) (*graph.ItemSet, error) {
	if omit.Len() == 0 {
		return b.Get(it)
	}
	return b.compute(it, omit)
}

func (b *base) GetOmittingItem(it graph.Item, omitted graph.Item) (*graph.ItemSet, error) {
	if omitted == nil {
		return b.Get(it)
	}
	return b.compute(it, graph.NewItemSet(omitted))
}

func (b *base) Invalidate(it graph.Item) { b.cache.Delete(it.Handle()) }
func (b *base) InvalidateAll()           { b.cache.Clear() }

// SetCaching switches memoization; any change clears the cache.
func (b *base) SetCaching(on bool) {
	if on == b.caching {
		return
	}
	b.cache.Clear()
	b.caching = on
}

// Caching reports whether results are memoized.
func (b *base) Caching() bool { return b.caching }

// CacheStats exposes the memo table counters.
func (b *base) CacheStats() memo.Stats { return b.cache.Stats() }

// Instrument exports cache metrics through m.
func (b *base) Instrument(m *memo.Metrics) { b.cache.Instrument(m) }

// schemaFilter matches an item's schema; the empty filter matches anything.
type schemaFilter string

func (f schemaFilter) match(it graph.Item) bool {
	return f == "" || it.SchemaName() == string(f)
}
