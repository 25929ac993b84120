package graph

import (
	"fmt"
	"runtime"
	"sync"
	"weak"

	"github.com/specialistvlad/relgraph/internal/ident"
	"github.com/specialistvlad/relgraph/internal/modelerr"
)

// Registry maps graph identifiers to live graphs and item identifiers to
// their owning graph. It holds graphs weakly: a graph that is no longer
// referenced elsewhere drops out once collected.
type Registry struct {
	mu      sync.Mutex
	graphs  map[ident.ID]weak.Pointer[Graph]
	items   map[ident.ItemID]ident.ID
	byGraph map[ident.ID]map[ident.ItemID]struct{}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by graphs created
// without WithRegistry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		graphs:  make(map[ident.ID]weak.Pointer[Graph]),
		items:   make(map[ident.ItemID]ident.ID),
		byGraph: make(map[ident.ID]map[ident.ItemID]struct{}),
	}
}

type cleanupArg struct {
	id ident.ID
	wp weak.Pointer[Graph]
}

// Register adds g under its identifier. An identifier already held by a live
// graph yields ErrAlreadyDefined.
func (r *Registry) Register(g *Graph) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if wp, ok := r.graphs[g.id]; ok && wp.Value() != nil {
		return fmt.Errorf("%w: graph '%s'", modelerr.ErrAlreadyDefined, g.id)
	}
	r.dropLocked(g.id)

	wp := weak.Make(g)
	r.graphs[g.id] = wp
	r.byGraph[g.id] = make(map[ident.ItemID]struct{})
	runtime.AddCleanup(g, r.collect, cleanupArg{id: g.id, wp: wp})
	return nil
}

// collect runs after a registered graph was garbage collected. The entry is
// only dropped when it still refers to that graph.
func (r *Registry) collect(arg cleanupArg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wp, ok := r.graphs[arg.id]; ok && wp == arg.wp {
		r.dropLocked(arg.id)
	}
}

// Deregister removes the graph and all of its items. Unknown identifiers are
// ignored.
func (r *Registry) Deregister(id ident.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropLocked(id)
}

func (r *Registry) dropLocked(id ident.ID) {
	for item := range r.byGraph[id] {
		delete(r.items, item)
	}
	delete(r.byGraph, id)
	delete(r.graphs, id)
}

func (r *Registry) registerItem(id ident.ItemID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned, ok := r.byGraph[id.Graph]
	if !ok {
		return
	}
	owned[id] = struct{}{}
	r.items[id] = id.Graph
}

func (r *Registry) deregisterItem(id ident.ItemID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	delete(r.byGraph[id.Graph], id)
}

// ResolveGraph returns the live graph registered under id.
func (r *Registry) ResolveGraph(id ident.ID) (*Graph, bool) {
	r.mu.Lock()
	wp, ok := r.graphs[id]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	g := wp.Value()
	return g, g != nil
}

// ResolveItem returns the item registered under id. Unattached identifiers
// never resolve here.
func (r *Registry) ResolveItem(id ident.ItemID) (Item, bool) {
	if !id.Attached() {
		return nil, false
	}
	r.mu.Lock()
	owner, ok := r.items[id]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	g, ok := r.ResolveGraph(owner)
	if !ok {
		return nil, false
	}
	return g.Item(id.Key())
}

// Contains reports whether a live graph is registered under id.
func (r *Registry) Contains(id ident.ID) bool {
	_, ok := r.ResolveGraph(id)
	return ok
}

// Len returns the number of registered graphs and items.
func (r *Registry) Len() (graphs, items int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.graphs), len(r.items)
}

// Reset forgets every entry.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.graphs)
	clear(r.items)
	clear(r.byGraph)
}
