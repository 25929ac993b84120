// Package testutil holds graph fixtures and the application harness shared
// by package tests.
package testutil

import (
	"testing"

	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/ident"
	"github.com/stretchr/testify/require"
)

// NewGraph creates a graph with a private identity registry, closed when the
// test ends. Schemas are defined with the given kinds.
func NewGraph(t *testing.T, schema, object string, schemas map[string]graph.Kind) *graph.Graph {
	t.Helper()
	g, err := graph.New(ident.ID{Schema: schema, Object: object}, graph.WithRegistry(graph.NewRegistry()), graph.WithCounter(&ident.Counter{}))
	require.NoError(t, err)
	t.Cleanup(g.Close)
	for name, kind := range schemas {
		require.NoError(t, g.DefineSchema(name, kind))
	}
	return g
}

// Feature is a named feature declaration for AddFeatures.
type Feature struct {
	Name    string
	Feature graph.Feature
}

// AddFeatures appends features to schema and applies the update.
func AddFeatures(t *testing.T, g *graph.Graph, schema string, features ...Feature) {
	t.Helper()
	s, err := g.Schema(schema)
	require.NoError(t, err)
	for _, f := range features {
		require.NoError(t, s.Add(f.Name, f.Feature))
	}
	require.NoError(t, g.UpdateSchema(s))
}

// Explicit declares an explicit feature, failing the test on a bad declaration.
func Explicit(t *testing.T, name string, typ graph.ValueType) Feature {
	t.Helper()
	f, err := graph.NewExplicit(typ, nil)
	require.NoError(t, err)
	return Feature{Name: name, Feature: f}
}

// AddNodes creates one node per object and returns them by object name.
func AddNodes(t *testing.T, g *graph.Graph, schema string, objects ...string) map[string]*graph.Node {
	t.Helper()
	nodes := make(map[string]*graph.Node, len(objects))
	for _, o := range objects {
		n, err := g.AddNode(schema, o)
		require.NoError(t, err)
		nodes[o] = n
	}
	return nodes
}

// Connect adds one edge per pair. Edge objects are the two node objects
// joined.
func Connect(t *testing.T, g *graph.Graph, schema string, nodes map[string]*graph.Node, pairs ...[2]string) []*graph.Edge {
	t.Helper()
	edges := make([]*graph.Edge, 0, len(pairs))
	for _, p := range pairs {
		e, err := g.AddEdge(schema, p[0]+p[1], nodes[p[0]], nodes[p[1]])
		require.NoError(t, err)
		edges = append(edges, e)
	}
	return edges
}
