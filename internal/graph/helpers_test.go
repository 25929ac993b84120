package graph

import (
	"testing"

	"github.com/specialistvlad/relgraph/internal/ident"
	"github.com/stretchr/testify/require"
)

// newTestGraph returns a graph in a private registry with a node schema "n",
// a directed edge schema "e" and an undirected edge schema "u".
func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := New(ident.ID{Schema: "g", Object: "test"}, WithRegistry(NewRegistry()), WithCounter(&ident.Counter{}))
	require.NoError(t, err)
	require.NoError(t, g.DefineSchema("n", NodeKind))
	require.NoError(t, g.DefineSchema("e", DirectedEdgeKind))
	require.NoError(t, g.DefineSchema("u", UndirectedEdgeKind))
	t.Cleanup(g.Close)
	return g
}

func mustNode(t *testing.T, g *Graph, object string) *Node {
	t.Helper()
	n, err := g.AddNode("n", object)
	require.NoError(t, err)
	return n
}

func mustEdge(t *testing.T, g *Graph, schema, object string, src, dst *Node) *Edge {
	t.Helper()
	e, err := g.AddEdge(schema, object, src, dst)
	require.NoError(t, err)
	return e
}

// addFeature commits one more feature into an item schema.
func addFeature(t *testing.T, g *Graph, schema, name string, f Feature) {
	t.Helper()
	s, err := g.Schema(schema)
	require.NoError(t, err)
	require.NoError(t, s.Add(name, f))
	require.NoError(t, g.UpdateSchema(s))
}
