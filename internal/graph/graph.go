package graph

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/specialistvlad/relgraph/internal/ident"
	"github.com/specialistvlad/relgraph/internal/memo"
	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/value"
)

// Graph owns nodes, edges, the schemas that govern them and the storage of
// their feature values. The graph is itself decorable through its own
// GraphKind schema, named after the graph identifier's schema component.
//
// A Graph is not safe for concurrent mutation.
type Graph struct {
	id     ident.ID
	handle Handle

	registry *Registry
	counter  *ident.Counter
	logger   *slog.Logger
	metrics  *memo.Metrics
	closed   bool

	own     *Schema
	schemas map[string]*Schema
	nodes   map[ident.Key]*Node
	edges   map[ident.Key]*Edge
}

// Option configures a Graph.
type Option func(*Graph)

// WithRegistry registers the graph in r instead of the default registry.
func WithRegistry(r *Registry) Option {
	return func(g *Graph) { g.registry = r }
}

// WithCounter draws generated identifiers from c instead of
// ident.DefaultCounter.
func WithCounter(c *ident.Counter) Option {
	return func(g *Graph) { g.counter = c }
}

// WithLogger sets the logger for debug events.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// WithMetrics exports the memo tables of derived features through m.
func WithMetrics(m *memo.Metrics) Option {
	return func(g *Graph) { g.metrics = m }
}

// New creates a graph and registers it.
func New(id ident.ID, opts ...Option) (*Graph, error) {
	if _, err := ident.NewID(id.Schema, id.Object); err != nil {
		return nil, err
	}
	g := &Graph{
		id:       id,
		handle:   nextHandle(),
		registry: defaultRegistry,
		counter:  ident.DefaultCounter,
		logger:   slog.Default(),
		own:      NewSchema(id.Schema, GraphKind),
		schemas:  make(map[string]*Schema),
		nodes:    make(map[ident.Key]*Node),
		edges:    make(map[ident.Key]*Edge),
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.registry.Register(g); err != nil {
		return nil, err
	}
	g.logger.Debug("Registered graph.", "graph", id.String())
	return g, nil
}

// NewAnonymous creates a graph with a generated object name.
func NewAnonymous(schema string, opts ...Option) (*Graph, error) {
	probe := &Graph{registry: defaultRegistry, counter: ident.DefaultCounter}
	for _, opt := range opts {
		opt(probe)
	}
	key, err := ident.GenerateUnique(probe.counter, schema, "", func(object string) bool {
		return probe.registry.Contains(ident.ID{Schema: schema, Object: object})
	})
	if err != nil {
		return nil, err
	}
	return New(ident.ID{Schema: key.Schema, Object: key.Object}, opts...)
}

// Close deregisters the graph and every item it owns. Calling it again is a
// no-op.
func (g *Graph) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.registry.Deregister(g.id)
	g.logger.Debug("Deregistered graph.", "graph", g.id.String())
}

func (g *Graph) ID() ident.ID       { return g.id }
func (g *Graph) Handle() Handle     { return g.handle }
func (g *Graph) SchemaName() string { return g.id.Schema }
func (g *Graph) Owner() *Graph      { return g }
func (g *Graph) String() string     { return g.id.String() }

// GraphSchema returns a disconnected copy of the graph's own schema.
func (g *Graph) GraphSchema() *Schema {
	return g.own.Copy()
}

// DefineSchema adds an empty item schema.
func (g *Graph) DefineSchema(name string, kind Kind) error {
	if kind == GraphKind {
		return fmt.Errorf("%w: item schema '%s' cannot be of kind %s", modelerr.ErrKindMismatch, name, kind)
	}
	if err := ident.ValidateSchemaName(name); err != nil {
		return err
	}
	if _, ok := g.schemas[name]; ok {
		return fmt.Errorf("%w: schema '%s'", modelerr.ErrAlreadyDefined, name)
	}
	g.schemas[name] = NewSchema(name, kind)
	g.logger.Debug("Defined schema.", "graph", g.id.String(), "schema", name, "kind", kind.String())
	return nil
}

// Schema returns a disconnected copy of an item schema.
func (g *Graph) Schema(name string) (*Schema, error) {
	s, err := g.liveSchema(name)
	if err != nil {
		return nil, err
	}
	return s.Copy(), nil
}

func (g *Graph) liveSchema(name string) (*Schema, error) {
	s, ok := g.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: schema '%s' in graph '%s'", modelerr.ErrNotDefined, name, g.id)
	}
	return s, nil
}

// SchemaNames lists the item schemas of the given kind, sorted.
func (g *Graph) SchemaNames(kind Kind) []string {
	var out []string
	for name, s := range g.schemas {
		if s.kind == kind {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// RemoveSchema removes every item governed by the schema, then the schema.
func (g *Graph) RemoveSchema(name string) error {
	s, err := g.liveSchema(name)
	if err != nil {
		return err
	}
	if s.kind == NodeKind {
		for _, n := range g.Nodes(name) {
			g.removeNode(n)
		}
	} else {
		for _, e := range g.Edges(name) {
			g.removeEdge(e)
		}
	}
	s.each(func(_ string, f Feature) { f.purge() })
	delete(g.schemas, name)
	g.logger.Debug("Removed schema.", "graph", g.id.String(), "schema", name)
	return nil
}

// AddNode creates a node with the given object name.
func (g *Graph) AddNode(schema, object string) (*Node, error) {
	id, err := g.newItemID(schema, object, NodeKind)
	if err != nil {
		return nil, err
	}
	n := &Node{itemBase: itemBase{id: id, handle: nextHandle(), kind: NodeKind, g: g}}
	g.nodes[id.Key()] = n
	g.registry.registerItem(id)
	return n, nil
}

// NewNode creates a node with a generated object name.
func (g *Graph) NewNode(schema string) (*Node, error) {
	key, err := g.generate(schema)
	if err != nil {
		return nil, err
	}
	return g.AddNode(key.Schema, key.Object)
}

// AddEdge creates an edge from src to dst. Whether it is directed follows
// the kind of its schema.
func (g *Graph) AddEdge(schema, object string, src, dst *Node) (*Edge, error) {
	s, err := g.liveSchema(schema)
	if err != nil {
		return nil, err
	}
	if !s.kind.IsEdge() {
		return nil, fmt.Errorf("%w: schema '%s' is a %s schema", modelerr.ErrKindMismatch, schema, s.kind)
	}
	for _, n := range []*Node{src, dst} {
		if n == nil || n.g != g {
			return nil, fmt.Errorf("%w: endpoint of edge '%s.%s'", modelerr.ErrForeignItem, schema, object)
		}
	}
	id, err := g.newItemID(schema, object, s.kind)
	if err != nil {
		return nil, err
	}
	e := &Edge{itemBase: itemBase{id: id, handle: nextHandle(), kind: s.kind, g: g}, source: src, target: dst}
	src.edges = append(src.edges, e)
	if dst != src {
		dst.edges = append(dst.edges, e)
	}
	g.edges[id.Key()] = e
	g.registry.registerItem(id)
	return e, nil
}

// NewEdge creates an edge with a generated object name.
func (g *Graph) NewEdge(schema string, src, dst *Node) (*Edge, error) {
	key, err := g.generate(schema)
	if err != nil {
		return nil, err
	}
	return g.AddEdge(key.Schema, key.Object, src, dst)
}

func (g *Graph) newItemID(schema, object string, want Kind) (ident.ItemID, error) {
	s, err := g.liveSchema(schema)
	if err != nil {
		return ident.ItemID{}, err
	}
	if s.kind != want {
		return ident.ItemID{}, fmt.Errorf("%w: schema '%s' is a %s schema", modelerr.ErrKindMismatch, schema, s.kind)
	}
	id, err := ident.NewItemID(g.id, schema, object)
	if err != nil {
		return ident.ItemID{}, err
	}
	if g.exists(id.Key()) {
		return ident.ItemID{}, fmt.Errorf("%w: item '%s'", modelerr.ErrAlreadyDefined, id)
	}
	return id, nil
}

func (g *Graph) generate(schema string) (ident.Key, error) {
	return ident.GenerateUnique(g.counter, schema, "", func(object string) bool {
		return g.exists(ident.Key{Schema: schema, Object: object})
	})
}

func (g *Graph) exists(k ident.Key) bool {
	_, n := g.nodes[k]
	_, e := g.edges[k]
	return n || e
}

// RemoveNode removes n together with its incident edges.
func (g *Graph) RemoveNode(n *Node) error {
	if err := g.owns(n); err != nil {
		return err
	}
	g.removeNode(n)
	return nil
}

// RemoveEdge removes e.
func (g *Graph) RemoveEdge(e *Edge) error {
	if err := g.owns(e); err != nil {
		return err
	}
	g.removeEdge(e)
	return nil
}

func (g *Graph) removeNode(n *Node) {
	for _, e := range slices.Clone(n.edges) {
		g.removeEdge(e)
	}
	g.destroy(n)
	delete(g.nodes, n.id.Key())
}

func (g *Graph) removeEdge(e *Edge) {
	e.source.detachEdge(e)
	e.target.detachEdge(e)
	g.destroy(e)
	delete(g.edges, e.id.Key())
}

// destroy purges everything stored for an item.
func (g *Graph) destroy(it Item) {
	if s, ok := g.schemas[it.SchemaName()]; ok {
		s.each(func(_ string, f Feature) { f.drop(it.Handle()) })
	}
	g.registry.deregisterItem(it.ID())
	switch v := it.(type) {
	case *Node:
		v.g = nil
	case *Edge:
		v.g = nil
	}
	g.logger.Debug("Destroyed item.", "item", it.ID().String())
}

// Node looks up a node.
func (g *Graph) Node(k ident.Key) (*Node, bool) {
	n, ok := g.nodes[k]
	return n, ok
}

// Edge looks up an edge.
func (g *Graph) Edge(k ident.Key) (*Edge, bool) {
	e, ok := g.edges[k]
	return e, ok
}

// Item looks up a node or an edge.
func (g *Graph) Item(k ident.Key) (Item, bool) {
	if n, ok := g.nodes[k]; ok {
		return n, true
	}
	if e, ok := g.edges[k]; ok {
		return e, true
	}
	return nil, false
}

// Nodes returns the nodes of a schema ordered by identifier. An empty schema
// name selects every node.
func (g *Graph) Nodes(schema string) []*Node {
	return collect(g.nodes, schema)
}

// Edges returns the edges of a schema ordered by identifier. An empty schema
// name selects every edge.
func (g *Graph) Edges(schema string) []*Edge {
	return collect(g.edges, schema)
}

func collect[T any](m map[ident.Key]T, schema string) []T {
	var out []T
	for _, k := range slices.SortedFunc(maps.Keys(m), compareKeys) {
		if schema == "" || k.Schema == schema {
			out = append(out, m[k])
		}
	}
	return out
}

func compareKeys(a, b ident.Key) int {
	return cmp.Or(cmp.Compare(a.Schema, b.Schema), cmp.Compare(a.Object, b.Object))
}

// NodeCount is the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount is the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

func (g *Graph) owns(d Decorable) error {
	if d == nil || d.Owner() != g {
		return fmt.Errorf("%w: graph '%s'", modelerr.ErrForeignItem, g.id)
	}
	return nil
}

func (g *Graph) schemaOf(d Decorable) (*Schema, error) {
	if err := g.owns(d); err != nil {
		return nil, err
	}
	if d == Decorable(g) {
		return g.own, nil
	}
	return g.liveSchema(d.SchemaName())
}

func (g *Graph) feature(d Decorable, name string) (Feature, error) {
	s, err := g.schemaOf(d)
	if err != nil {
		return nil, err
	}
	return s.Get(name)
}

// Value returns the value of a feature for d: the stored value, the closed
// default or value.Unknown for explicit features, the computed value for
// derived ones.
func (g *Graph) Value(d Decorable, name string) (value.Value, error) {
	f, err := g.feature(d, name)
	if err != nil {
		return nil, err
	}
	switch f := f.(type) {
	case *ExplicitFeature:
		return f.get(d.Handle()), nil
	case *DerivedFeature:
		return f.value(d)
	default:
		return nil, fmt.Errorf("%w: feature '%s'", modelerr.ErrKindMismatch, name)
	}
}

// SetValue stores v for d. Storing value.Unknown, or the default of a closed
// feature, removes the stored row.
func (g *Graph) SetValue(d Decorable, name string, v value.Value) error {
	f, err := g.feature(d, name)
	if err != nil {
		return err
	}
	ef, ok := f.(*ExplicitFeature)
	if !ok {
		return fmt.Errorf("%w: feature '%s' is derived", modelerr.ErrKindMismatch, name)
	}
	if err := ef.set(d.Handle(), v); err != nil {
		return fmt.Errorf("feature '%s': %w", name, err)
	}
	return nil
}

// HasFeature reports whether the schema of d defines name.
func (g *Graph) HasFeature(d Decorable, name string) bool {
	_, err := g.feature(d, name)
	return err == nil
}

// HasExplicitValue reports whether d holds a stored row for an explicit
// feature. Derived features never have one.
func (g *Graph) HasExplicitValue(d Decorable, name string) (bool, error) {
	f, err := g.feature(d, name)
	if err != nil {
		return false, err
	}
	ef, ok := f.(*ExplicitFeature)
	return ok && ef.has(d.Handle()), nil
}

// DerivedFeature returns the live derived feature of a schema.
func (g *Graph) DerivedFeature(schema, name string) (*DerivedFeature, error) {
	s, ok := g.schemas[schema]
	if !ok {
		if schema != g.id.Schema {
			return nil, fmt.Errorf("%w: schema '%s' in graph '%s'", modelerr.ErrNotDefined, schema, g.id)
		}
		s = g.own
	}
	f, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	df, ok := f.(*DerivedFeature)
	if !ok {
		return nil, fmt.Errorf("%w: feature '%s' is explicit", modelerr.ErrKindMismatch, name)
	}
	return df, nil
}

// InvalidateDerived drops the memo entries of d in every derived feature of
// its schema.
func (g *Graph) InvalidateDerived(d Decorable) error {
	s, err := g.schemaOf(d)
	if err != nil {
		return err
	}
	s.each(func(_ string, f Feature) {
		if df, ok := f.(*DerivedFeature); ok {
			df.Invalidate(d)
		}
	})
	return nil
}

// Resolve finds the item named by id, asking the registry first and this
// graph second.
func (g *Graph) Resolve(id ident.ItemID) (Item, error) {
	if it, ok := g.registry.ResolveItem(id); ok {
		return it, nil
	}
	if !id.Attached() || id.Graph == g.id {
		if it, ok := g.Item(id.Key()); ok {
			return it, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", modelerr.ErrUnresolvedReference, id)
}

// ResolveAll resolves every identifier of a reference value, in order.
func (g *Graph) ResolveAll(ref value.MultiID) ([]Item, error) {
	out := make([]Item, 0, ref.Len())
	for _, id := range ref.IDs() {
		it, err := g.Resolve(id)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}
