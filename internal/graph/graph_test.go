package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/relgraph/internal/ident"
	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_ItemsAndIncidence(t *testing.T) {
	g := newTestGraph(t)
	a := mustNode(t, g, "a")
	b := mustNode(t, g, "b")
	ab := mustEdge(t, g, "e", "ab", a, b)
	loop := mustEdge(t, g, "u", "loop", a, a)

	assert.Equal(t, "g.test.n.a", a.ID().String())
	assert.True(t, ab.Directed())
	assert.False(t, loop.Directed())
	assert.True(t, loop.IsLoop())
	assert.Equal(t, 2, a.Degree(), "a self-loop is incident once")
	assert.Equal(t, 1, b.Degree())
	assert.Same(t, b, ab.Other(a))
	assert.Nil(t, ab.Other(mustNode(t, g, "c")))

	_, err := g.AddNode("n", "a")
	assert.ErrorIs(t, err, modelerr.ErrAlreadyDefined)
	_, err = g.AddNode("e", "x")
	assert.ErrorIs(t, err, modelerr.ErrKindMismatch)
	_, err = g.AddNode("missing", "x")
	assert.ErrorIs(t, err, modelerr.ErrNotDefined)
	_, err = g.AddNode("n", "bad.name")
	assert.ErrorIs(t, err, modelerr.ErrInvalidName)
	_, err = g.AddEdge("n", "x", a, b)
	assert.ErrorIs(t, err, modelerr.ErrKindMismatch)
}

func TestGraph_GeneratedNames(t *testing.T) {
	g := newTestGraph(t)
	mustNode(t, g, "n_1")

	n, err := g.NewNode("n")
	require.NoError(t, err)
	assert.Equal(t, "n_2", n.ID().Object, "taken candidates are skipped")

	e, err := g.NewEdge("e", n, n)
	require.NoError(t, err)
	assert.Equal(t, "e_3", e.ID().Object)
}

func TestGraph_RemoveNodePurges(t *testing.T) {
	g := newTestGraph(t)
	addFeature(t, g, "n", "w", numeric(t))
	addFeature(t, g, "e", "w", numeric(t))
	a := mustNode(t, g, "a")
	b := mustNode(t, g, "b")
	ab := mustEdge(t, g, "e", "ab", a, b)
	require.NoError(t, g.SetValue(a, "w", value.MustNumeric(1)))
	require.NoError(t, g.SetValue(ab, "w", value.MustNumeric(2)))

	require.NoError(t, g.RemoveNode(a))

	assert.Equal(t, 0, b.Degree())
	assert.Nil(t, a.Owner())
	assert.Nil(t, ab.Owner())
	_, ok := g.Edge(ab.ID().Key())
	assert.False(t, ok)

	f, _ := g.schemas["n"].Get("w")
	assert.Equal(t, 0, f.(*ExplicitFeature).rowCount())
	f, _ = g.schemas["e"].Get("w")
	assert.Equal(t, 0, f.(*ExplicitFeature).rowCount())

	_, err := g.Value(a, "w")
	assert.ErrorIs(t, err, modelerr.ErrForeignItem)
	assert.ErrorIs(t, g.RemoveNode(a), modelerr.ErrForeignItem)
}

func TestGraph_Enumeration(t *testing.T) {
	g := newTestGraph(t)
	require.NoError(t, g.DefineSchema("m", NodeKind))
	mustNode(t, g, "z")
	mustNode(t, g, "b")
	_, err := g.AddNode("m", "a")
	require.NoError(t, err)

	var got []string
	for _, n := range g.Nodes("n") {
		got = append(got, n.ID().Object)
	}
	if diff := cmp.Diff([]string{"b", "z"}, got); diff != "" {
		t.Errorf("Nodes(n) mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, g.Nodes(""), 3)
	assert.Equal(t, []string{"m", "n"}, g.SchemaNames(NodeKind))
	assert.Equal(t, []string{"e"}, g.SchemaNames(DirectedEdgeKind))

	require.NoError(t, g.RemoveSchema("m"))
	assert.Equal(t, 2, g.NodeCount())
	assert.ErrorIs(t, g.RemoveSchema("m"), modelerr.ErrNotDefined)
	assert.ErrorIs(t, g.DefineSchema("n", NodeKind), modelerr.ErrAlreadyDefined)
	assert.ErrorIs(t, g.DefineSchema("x", GraphKind), modelerr.ErrKindMismatch)
}

func TestGraph_ClosedFeatureDefault(t *testing.T) {
	g := newTestGraph(t)
	f, err := NewClosed(NumericType, nil, value.MustNumeric(0))
	require.NoError(t, err)
	addFeature(t, g, "n", "w", f)
	x := mustNode(t, g, "x")

	got, err := g.Value(x, "w")
	require.NoError(t, err)
	assert.True(t, got.Equal(value.MustNumeric(0)))
	has, err := g.HasExplicitValue(x, "w")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, g.SetValue(x, "w", value.MustNumeric(4)))
	got, _ = g.Value(x, "w")
	assert.True(t, got.Equal(value.MustNumeric(4)))

	require.NoError(t, g.SetValue(x, "w", value.Unknown))
	got, _ = g.Value(x, "w")
	assert.True(t, got.Equal(value.MustNumeric(0)))
	has, _ = g.HasExplicitValue(x, "w")
	assert.False(t, has)
}

func TestGraph_OpenFeature(t *testing.T) {
	g := newTestGraph(t)
	addFeature(t, g, "n", "label", mustExplicit(t, StringType, nil))
	x := mustNode(t, g, "x")

	got, err := g.Value(x, "label")
	require.NoError(t, err)
	assert.True(t, value.IsUnknown(got))

	err = g.SetValue(x, "label", value.MustNumeric(1))
	assert.ErrorIs(t, err, modelerr.ErrInvalidValue)
	_, err = g.Value(x, "missing")
	assert.ErrorIs(t, err, modelerr.ErrNotDefined)
	assert.True(t, g.HasFeature(x, "label"))
	assert.False(t, g.HasFeature(x, "missing"))
}

func TestGraph_CategoricalImplicitOneHot(t *testing.T) {
	g := newTestGraph(t)
	colors := value.MustCategories("red", "green")
	addFeature(t, g, "n", "color", mustExplicit(t, CategoricalType, colors))
	x := mustNode(t, g, "x")
	y := mustNode(t, g, "y")

	require.NoError(t, g.SetValue(x, "color", value.NewCategorical("red")))
	require.NoError(t, g.SetValue(y, "color", value.NewCategorical("red", 1.0, 0.0)))

	gx, err := g.Value(x, "color")
	require.NoError(t, err)
	gy, err := g.Value(y, "color")
	require.NoError(t, err)
	assert.True(t, gx.Equal(value.NewCategorical("red", 1.0, 0.0)))
	assert.Equal(t, []float64{1, 0}, gx.(*value.Categorical).Probabilities())
	assert.Same(t, gx, gy, "one-hot values are shared across items")

	err = g.SetValue(x, "color", value.NewCategorical("blue"))
	assert.ErrorIs(t, err, modelerr.ErrInvalidValue)
}

func TestGraph_OwnSchema(t *testing.T) {
	g := newTestGraph(t)
	s := g.GraphSchema()
	assert.Equal(t, GraphKind, s.Kind())
	require.NoError(t, s.Add("size", numeric(t)))
	require.NoError(t, g.UpdateSchema(s))

	require.NoError(t, g.SetValue(g, "size", value.MustNumeric(3)))
	got, err := g.Value(g, "size")
	require.NoError(t, err)
	assert.True(t, got.Equal(value.MustNumeric(3)))

	assert.ErrorIs(t, g.UpdateSchema(NewSchema("other", GraphKind)), modelerr.ErrNotDefined)
}

func TestGraph_ResolveAcrossGraphs(t *testing.T) {
	reg := NewRegistry()
	g1, err := New(ident.ID{Schema: "g", Object: "one"}, WithRegistry(reg))
	require.NoError(t, err)
	defer g1.Close()
	g2, err := New(ident.ID{Schema: "g", Object: "two"}, WithRegistry(reg))
	require.NoError(t, err)
	defer g2.Close()
	require.NoError(t, g1.DefineSchema("n", NodeKind))
	require.NoError(t, g2.DefineSchema("n", NodeKind))
	a, err := g1.AddNode("n", "a")
	require.NoError(t, err)
	b, err := g2.AddNode("n", "b")
	require.NoError(t, err)

	got, err := g1.Resolve(b.ID())
	require.NoError(t, err)
	assert.Same(t, b, got)

	local, err := g1.Resolve(a.ID().Detach())
	require.NoError(t, err)
	assert.Same(t, a, local)

	_, err = g1.Resolve(ident.ItemID{Graph: g2.ID(), Schema: "n", Object: "zz"})
	assert.ErrorIs(t, err, modelerr.ErrUnresolvedReference)

	items, err := g1.ResolveAll(value.NewMultiID(a.ID(), b.ID()))
	require.NoError(t, err)
	assert.Len(t, items, 2)

	g2.Close()
	_, err = g1.Resolve(b.ID())
	assert.ErrorIs(t, err, modelerr.ErrUnresolvedReference)
}

func mustExplicit(t *testing.T, typ ValueType, cats *value.Categories) *ExplicitFeature {
	t.Helper()
	f, err := NewExplicit(typ, cats)
	require.NoError(t, err)
	return f
}
