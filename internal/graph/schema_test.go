package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numeric(t *testing.T) *ExplicitFeature {
	t.Helper()
	f, err := NewExplicit(NumericType, nil)
	require.NoError(t, err)
	return f
}

func TestSchema_AddTwiceFails(t *testing.T) {
	s := NewSchema("n", NodeKind)
	require.NoError(t, s.Add("a", numeric(t)))

	err := s.Add("a", numeric(t))
	assert.ErrorIs(t, err, modelerr.ErrAlreadyDefined)

	require.NoError(t, s.Remove("a"))
	assert.NoError(t, s.Add("a", numeric(t)))
}

func TestSchema_AddValidation(t *testing.T) {
	s := NewSchema("n", NodeKind)

	testCases := []struct {
		name    string
		feature string
		def     Feature
		wantErr error
	}{
		{name: "leading digit", feature: "1a", def: numeric(t), wantErr: modelerr.ErrInvalidName},
		{name: "dot", feature: "a.b", def: numeric(t), wantErr: modelerr.ErrInvalidName},
		{name: "empty", feature: "", def: numeric(t), wantErr: modelerr.ErrInvalidName},
		{name: "nil interface", feature: "a", def: nil, wantErr: modelerr.ErrNullDefinition},
		{name: "typed nil", feature: "a", def: (*ExplicitFeature)(nil), wantErr: modelerr.ErrNullDefinition},
		{name: "ok", feature: "a_b:c-d", def: numeric(t)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Add(tc.feature, tc.def)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSchema_OrderAndReplace(t *testing.T) {
	s := NewSchema("n", NodeKind)
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, s.Add(name, numeric(t)))
	}
	repl := numeric(t)
	require.NoError(t, s.Replace("a", repl))

	if diff := cmp.Diff([]string{"c", "a", "b"}, s.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Same(t, repl, got)

	assert.ErrorIs(t, s.Replace("zz", numeric(t)), modelerr.ErrNotDefined)
	assert.ErrorIs(t, s.Remove("zz"), modelerr.ErrNotDefined)
	_, err = s.Get("zz")
	assert.ErrorIs(t, err, modelerr.ErrNotDefined)

	s.RemoveAll()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Names())
}

func TestSchema_Copies(t *testing.T) {
	s := NewSchema("n", NodeKind)
	f := numeric(t)
	require.NoError(t, s.Add("a", f))

	shallow := s.Copy()
	got, _ := shallow.Get("a")
	assert.Same(t, f, got)
	require.NoError(t, shallow.Add("b", numeric(t)))
	assert.False(t, s.Has("b"))

	deep := s.CopyWithFeatures()
	got, _ = deep.Get("a")
	assert.NotSame(t, f, got)
	assert.True(t, f.SameDeclaration(got))
}

func TestSchema_GenerateUniqueFeatureName(t *testing.T) {
	s := NewSchema("n", NodeKind)
	name := s.GenerateUniqueFeatureName()
	require.NoError(t, ValidateFeatureName(name))
	require.NoError(t, s.Add(name, numeric(t)))
	assert.NotEqual(t, name, s.GenerateUniqueFeatureName())
}

func TestExplicit_Declarations(t *testing.T) {
	colors := value.MustCategories("red", "green")

	_, err := NewExplicit(CategoricalType, nil)
	assert.ErrorIs(t, err, modelerr.ErrInvalidValue)
	_, err = NewExplicit(NumericType, colors)
	assert.ErrorIs(t, err, modelerr.ErrInvalidValue)
	_, err = NewClosed(NumericType, nil, value.Unknown)
	assert.ErrorIs(t, err, modelerr.ErrInvalidValue)
	_, err = NewClosed(NumericType, nil, value.NewString("x"))
	assert.ErrorIs(t, err, modelerr.ErrInvalidValue)
	_, err = NewClosed(CategoricalType, colors, value.NewCategorical("blue"))
	assert.ErrorIs(t, err, modelerr.ErrInvalidValue)
}
