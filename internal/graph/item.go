package graph

import (
	"slices"
	"sync/atomic"

	"github.com/specialistvlad/relgraph/internal/ident"
)

// Handle is the compact storage key of a decorable. Handles are unique
// across the process, so feature definitions shared between graphs never
// mix up rows.
type Handle uint64

var handleSeq atomic.Uint64

func nextHandle() Handle {
	return Handle(handleSeq.Add(1))
}

// Decorable is anything that carries schema-governed feature values.
type Decorable interface {
	Handle() Handle
	SchemaName() string
	// Owner returns the graph the decorable belongs to, or nil once it has
	// been removed.
	Owner() *Graph
}

// Item is a node or an edge.
type Item interface {
	Decorable
	ID() ident.ItemID
	Kind() Kind
}

type itemBase struct {
	id     ident.ItemID
	handle Handle
	kind   Kind
	g      *Graph
}

func (b *itemBase) ID() ident.ItemID   { return b.id }
func (b *itemBase) Handle() Handle     { return b.handle }
func (b *itemBase) Kind() Kind         { return b.kind }
func (b *itemBase) SchemaName() string { return b.id.Schema }
func (b *itemBase) Owner() *Graph      { return b.g }
func (b *itemBase) String() string     { return b.id.String() }

// Node is a vertex of the graph.
type Node struct {
	itemBase
	edges []*Edge
}

// Edges returns the edges incident to the node, each once, in creation order.
func (n *Node) Edges() []*Edge {
	return slices.Clone(n.edges)
}

// Degree is the number of incident edges.
func (n *Node) Degree() int {
	return len(n.edges)
}

func (n *Node) detachEdge(e *Edge) {
	n.edges = slices.DeleteFunc(n.edges, func(x *Edge) bool { return x == e })
}

// Edge connects a source node to a target node. For undirected edges the
// two roles only record creation order.
type Edge struct {
	itemBase
	source *Node
	target *Node
}

func (e *Edge) Source() *Node { return e.source }
func (e *Edge) Target() *Node { return e.target }

// Directed reports whether the edge belongs to a directed schema.
func (e *Edge) Directed() bool {
	return e.kind == DirectedEdgeKind
}

// Endpoints returns source and target; a self-loop yields the same node twice.
func (e *Edge) Endpoints() []*Node {
	return []*Node{e.source, e.target}
}

// Other returns the endpoint opposite n, or nil when n is not an endpoint.
func (e *Edge) Other(n *Node) *Node {
	switch n {
	case e.source:
		return e.target
	case e.target:
		return e.source
	default:
		return nil
	}
}

// IsLoop reports whether both endpoints are the same node.
func (e *Edge) IsLoop() bool {
	return e.source == e.target
}
