package graph

import (
	"errors"
	"testing"

	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// degreeSpec declares a numeric feature computing node degree and counting
// how often the rule ran.
func degreeSpec(calls *int, builds *int) DerivedSpec {
	return DerivedSpec{
		Type:      NumericType,
		Component: "degree",
		Params:    config.Empty(),
		Caching:   true,
		Factory: func(config.Params) (Rule, error) {
			*builds++
			return RuleFunc(func(d Decorable) (value.Value, error) {
				*calls++
				return value.MustNumeric(float64(d.(*Node).Degree())), nil
			}), nil
		},
	}
}

func TestDerived_CachingToggleForcesRecomputation(t *testing.T) {
	g := newTestGraph(t)
	var calls, builds int
	f, err := NewDerived(degreeSpec(&calls, &builds))
	require.NoError(t, err)
	addFeature(t, g, "n", "deg", f)
	x := mustNode(t, g, "x")
	y := mustNode(t, g, "y")

	assert.False(t, f.Ready())
	got, err := g.Value(x, "deg")
	require.NoError(t, err)
	assert.True(t, got.Equal(value.MustNumeric(0)))
	assert.True(t, f.Ready())

	mustEdge(t, g, "e", "xy", x, y)
	got, _ = g.Value(x, "deg")
	assert.True(t, got.Equal(value.MustNumeric(0)), "memoized value is stale until invalidated")
	assert.Equal(t, 1, calls)

	f.SetCaching(false)
	f.SetCaching(true)
	got, _ = g.Value(x, "deg")
	assert.True(t, got.Equal(value.MustNumeric(1)))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, builds, "the rule is built once")

	stats := f.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, 1, stats.Size)
}

func TestDerived_Invalidation(t *testing.T) {
	g := newTestGraph(t)
	var calls, builds int
	f, err := NewDerived(degreeSpec(&calls, &builds))
	require.NoError(t, err)
	addFeature(t, g, "n", "deg", f)
	x := mustNode(t, g, "x")
	y := mustNode(t, g, "y")
	_, _ = g.Value(x, "deg")
	_, _ = g.Value(y, "deg")

	mustEdge(t, g, "e", "xy", x, y)
	require.NoError(t, g.InvalidateDerived(x))
	gx, _ := g.Value(x, "deg")
	gy, _ := g.Value(y, "deg")
	assert.True(t, gx.Equal(value.MustNumeric(1)))
	assert.True(t, gy.Equal(value.MustNumeric(0)))

	f.InvalidateAll()
	gy, _ = g.Value(y, "deg")
	assert.True(t, gy.Equal(value.MustNumeric(1)))

	live, err := g.DerivedFeature("n", "deg")
	require.NoError(t, err)
	assert.Same(t, f, live)
}

func TestDerived_WithoutCaching(t *testing.T) {
	g := newTestGraph(t)
	var calls, builds int
	spec := degreeSpec(&calls, &builds)
	spec.Caching = false
	f, err := NewDerived(spec)
	require.NoError(t, err)
	addFeature(t, g, "n", "deg", f)
	x := mustNode(t, g, "x")

	_, _ = g.Value(x, "deg")
	_, _ = g.Value(x, "deg")
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, f.Stats().Size)
}

func TestDerived_Errors(t *testing.T) {
	errBoom := errors.New("boom")

	testCases := []struct {
		name    string
		factory RuleFactory
		wantErr error
	}{
		{
			name:    "factory failure",
			factory: func(config.Params) (Rule, error) { return nil, errBoom },
			wantErr: errBoom,
		},
		{
			name: "rule failure",
			factory: func(config.Params) (Rule, error) {
				return RuleFunc(func(Decorable) (value.Value, error) { return nil, errBoom }), nil
			},
			wantErr: errBoom,
		},
		{
			name: "wrong value kind",
			factory: func(config.Params) (Rule, error) {
				return RuleFunc(func(Decorable) (value.Value, error) { return value.NewString("x"), nil }), nil
			},
			wantErr: modelerr.ErrInvalidValue,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGraph(t)
			f, err := NewDerived(DerivedSpec{Type: NumericType, Component: "c", Factory: tc.factory})
			require.NoError(t, err)
			addFeature(t, g, "n", "d", f)
			x := mustNode(t, g, "x")

			_, err = g.Value(x, "d")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestDerived_CopyAndSetValue(t *testing.T) {
	g := newTestGraph(t)
	var calls, builds int
	f, err := NewDerived(degreeSpec(&calls, &builds))
	require.NoError(t, err)
	addFeature(t, g, "n", "deg", f)
	x := mustNode(t, g, "x")
	_, _ = g.Value(x, "deg")

	c := f.Copy().(*DerivedFeature)
	assert.False(t, c.Ready())
	assert.Equal(t, 0, c.Stats().Size)
	assert.True(t, c.SameDeclaration(f))

	err = g.SetValue(x, "deg", value.MustNumeric(1))
	assert.ErrorIs(t, err, modelerr.ErrKindMismatch)
	has, err := g.HasExplicitValue(x, "deg")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = NewDerived(DerivedSpec{Type: NumericType, Component: "c"})
	assert.Error(t, err)
}
