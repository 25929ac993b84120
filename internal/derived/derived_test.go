package derived_test

import (
	"math"
	"testing"

	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/registry"
	"github.com/specialistvlad/relgraph/internal/testutil"
	"github.com/specialistvlad/relgraph/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// star builds hub -> a, hub -> b, c -> hub with numeric "w" and categorical
// "color" node features.
func star(t *testing.T) (*graph.Graph, map[string]*graph.Node) {
	t.Helper()
	g := testutil.NewGraph(t, "g", "star", map[string]graph.Kind{"n": graph.NodeKind, "e": graph.DirectedEdgeKind})
	color, err := graph.NewExplicit(graph.CategoricalType, value.MustCategories("red", "green"))
	require.NoError(t, err)
	testutil.AddFeatures(t, g, "n",
		testutil.Explicit(t, "w", graph.NumericType),
		testutil.Feature{Name: "color", Feature: color},
	)

	nodes := testutil.AddNodes(t, g, "n", "hub", "a", "b", "c")
	testutil.Connect(t, g, "e", nodes, [2]string{"hub", "a"}, [2]string{"hub", "b"}, [2]string{"c", "hub"})

	set := func(n, f string, v value.Value) {
		require.NoError(t, g.SetValue(nodes[n], f, v))
	}
	set("a", "w", value.MustNumeric(1))
	set("b", "w", value.MustNumeric(3))
	set("a", "color", value.NewCategorical("red"))
	set("b", "color", value.NewCategorical("red"))
	set("c", "color", value.NewCategorical("green"))
	return g, nodes
}

// evaluate declares a derived feature on schema "n" and reads it for item.
func evaluate(t *testing.T, g *graph.Graph, item graph.Decorable, typ graph.ValueType, cats *value.Categories, rule string, params map[string]string) (value.Value, error) {
	t.Helper()
	f, err := registry.Default().Derived(typ, cats, rule, config.FromMap(params), false)
	require.NoError(t, err)
	s, err := g.Schema("n")
	require.NoError(t, err)
	name := s.GenerateUniqueFeatureName()
	require.NoError(t, s.Add(name, f))
	require.NoError(t, g.UpdateSchema(s))
	return g.Value(item, name)
}

func TestDegree(t *testing.T) {
	g, n := star(t)

	testCases := []struct {
		direction string
		want      float64
	}{
		{direction: "both", want: 3},
		{direction: "out", want: 2},
		{direction: "in", want: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.direction, func(t *testing.T) {
			got, err := evaluate(t, g, n["hub"], graph.NumericType, nil, "degree", map[string]string{"direction": tc.direction})
			require.NoError(t, err)
			assert.True(t, got.Equal(value.MustNumeric(tc.want)), "got %s", got)
		})
	}

	_, err := evaluate(t, g, g, graph.NumericType, nil, "degree", nil)
	assert.ErrorIs(t, err, modelerr.ErrNotDefined, "the graph schema does not hold the feature")
}

func TestAggregate(t *testing.T) {
	g, n := star(t)

	testCases := []struct {
		name   string
		typ    graph.ValueType
		cats   *value.Categories
		params map[string]string
		want   value.Value
	}{
		{name: "count skips unknown", params: map[string]string{"feature": "w"}, want: value.MustNumeric(2)},
		{name: "sum", params: map[string]string{"feature": "w", "op": "sum"}, want: value.MustNumeric(4)},
		{name: "mean", params: map[string]string{"feature": "w", "op": "mean"}, want: value.MustNumeric(2)},
		{name: "min", params: map[string]string{"feature": "w", "op": "min"}, want: value.MustNumeric(1)},
		{name: "max", params: map[string]string{"feature": "w", "op": "max"}, want: value.MustNumeric(3)},
		{
			name:   "proportion",
			params: map[string]string{"feature": "color", "op": "proportion", "label": "red"},
			want:   value.MustNumeric(2.0 / 3.0),
		},
		{
			name:   "mode",
			typ:    graph.CategoricalType,
			cats:   value.MustCategories("red", "green"),
			params: map[string]string{"feature": "color", "op": "mode"},
			want:   value.NewCategorical("red", 1, 0),
		},
		{
			name:   "outgoing only",
			params: map[string]string{"feature": "w", "op": "sum", "neighbor.direction": "source"},
			want:   value.MustNumeric(4),
		},
		{
			name:   "empty neighbor set",
			params: map[string]string{"feature": "w", "op": "mean", "neighbor.direction": "target", "neighbor.adjacentschema": "none"},
			want:   value.Unknown,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := evaluate(t, g, n["hub"], tc.typ, tc.cats, "aggregate", tc.params)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}

	_, err := evaluate(t, g, n["hub"], graph.NumericType, nil, "aggregate", map[string]string{"feature": "color", "op": "sum"})
	assert.ErrorIs(t, err, modelerr.ErrInvalidValue)
	_, err = evaluate(t, g, n["hub"], graph.NumericType, nil, "aggregate", map[string]string{"op": "sum"})
	assert.ErrorIs(t, err, modelerr.ErrConfiguration)
}

func TestAggregate_Infinities(t *testing.T) {
	g, n := star(t)
	require.NoError(t, g.SetValue(n["a"], "w", value.MustNumeric(math.Inf(1))))
	require.NoError(t, g.SetValue(n["b"], "w", value.MustNumeric(math.Inf(-1))))
	outgoing := func(op string) map[string]string {
		return map[string]string{"feature": "w", "op": op, "neighbor.direction": "source"}
	}

	testCases := []struct {
		op   string
		want float64
	}{
		{op: "max", want: math.Inf(1)},
		{op: "min", want: math.Inf(-1)},
	}
	for _, tc := range testCases {
		t.Run(tc.op, func(t *testing.T) {
			got, err := evaluate(t, g, n["hub"], graph.NumericType, nil, "aggregate", outgoing(tc.op))
			require.NoError(t, err)
			assert.True(t, value.MustNumeric(tc.want).Equal(got), "got %s", got)
		})
	}

	for _, op := range []string{"sum", "mean"} {
		t.Run(op+" of opposite infinities", func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := evaluate(t, g, n["hub"], graph.NumericType, nil, "aggregate", outgoing(op))
				assert.ErrorIs(t, err, modelerr.ErrInvalidValue)
			})
		})
	}

	require.NoError(t, g.SetValue(n["b"], "w", value.MustNumeric(math.Inf(1))))
	got, err := evaluate(t, g, n["hub"], graph.NumericType, nil, "aggregate", outgoing("sum"))
	require.NoError(t, err)
	assert.True(t, value.MustNumeric(math.Inf(1)).Equal(got), "got %s", got)
}

func TestExpression(t *testing.T) {
	g, n := star(t)

	testCases := []struct {
		name   string
		typ    graph.ValueType
		item   string
		params map[string]string
		want   value.Value
	}{
		{name: "arithmetic", item: "b", params: map[string]string{"expr": "f.w * 2.0 + 1.0"}, want: value.MustNumeric(7)},
		{name: "boolean", item: "a", params: map[string]string{"expr": "f.color == 'red'"}, want: value.MustNumeric(1)},
		{name: "guarded", item: "c", params: map[string]string{"expr": "has(f.w) ? f.w : -1.0"}, want: value.MustNumeric(-1)},
		{
			name:   "string result",
			typ:    graph.StringType,
			item:   "c",
			params: map[string]string{"expr": "'color=' + f.color", "result": "string"},
			want:   value.NewString("color=green"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := evaluate(t, g, n[tc.item], tc.typ, nil, "expression", tc.params)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}

	_, err := evaluate(t, g, n["a"], graph.NumericType, nil, "expression", map[string]string{"expr": "f.w +"})
	assert.ErrorIs(t, err, modelerr.ErrConfiguration)
	_, err = evaluate(t, g, n["c"], graph.NumericType, nil, "expression", map[string]string{"expr": "f.w"})
	assert.Error(t, err, "missing key")
}

func TestNeighborIDs(t *testing.T) {
	g, n := star(t)
	got, err := evaluate(t, g, n["hub"], graph.MultiIDType, nil, "neighborids", map[string]string{"neighbor": "adjacent"})
	require.NoError(t, err)
	want := value.NewMultiID(n["a"].ID(), n["b"].ID(), n["c"].ID())
	assert.True(t, want.Equal(got), "got %s", got)

	items, err := g.ResolveAll(got.(value.MultiID))
	require.NoError(t, err)
	assert.Len(t, items, 3)
}
