package graph

import (
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/value"
)

// ExplicitFeature stores caller-assigned values.
//
// Rows are only materialized for values that differ from what the feature
// reports by default: storing Unknown, or the default of a closed feature,
// removes the row. HasExplicitValue relies on this.
type ExplicitFeature struct {
	typ    ValueType
	cats   *value.Categories
	closed bool
	def    value.Value

	rows map[Handle]value.Value
}

// NewExplicit declares an open feature: unset items report value.Unknown.
// cats is required for categorical types and must be nil otherwise.
func NewExplicit(typ ValueType, cats *value.Categories) (*ExplicitFeature, error) {
	if err := checkDeclaration(typ, cats); err != nil {
		return nil, err
	}
	return &ExplicitFeature{typ: typ, cats: cats, def: value.Unknown, rows: make(map[Handle]value.Value)}, nil
}

// NewClosed declares a closed feature: unset items report def.
func NewClosed(typ ValueType, cats *value.Categories, def value.Value) (*ExplicitFeature, error) {
	f, err := NewExplicit(typ, cats)
	if err != nil {
		return nil, err
	}
	if value.IsUnknown(def) {
		return nil, fmt.Errorf("%w: closed feature needs a default value", modelerr.ErrInvalidValue)
	}
	def, err = conform(typ, cats, def)
	if err != nil {
		return nil, fmt.Errorf("invalid default: %w", err)
	}
	f.closed = true
	f.def = def
	return f, nil
}

func (f *ExplicitFeature) ValueType() ValueType          { return f.typ }
func (f *ExplicitFeature) Categories() *value.Categories { return f.cats }

// Closed reports whether every item implicitly holds the default.
func (f *ExplicitFeature) Closed() bool { return f.closed }

// Default returns the closed default, or value.Unknown for open features.
func (f *ExplicitFeature) Default() value.Value { return f.def }

func (f *ExplicitFeature) Copy() Feature {
	return &ExplicitFeature{typ: f.typ, cats: f.cats, closed: f.closed, def: f.def, rows: make(map[Handle]value.Value)}
}

func (f *ExplicitFeature) SameDeclaration(other Feature) bool {
	o, ok := other.(*ExplicitFeature)
	if !ok || isNilFeature(o) {
		return false
	}
	return f.typ == o.typ && f.cats.Equal(o.cats) && f.closed == o.closed && f.def.Equal(o.def)
}

func (f *ExplicitFeature) get(h Handle) value.Value {
	if v, ok := f.rows[h]; ok {
		return v
	}
	return f.def
}

func (f *ExplicitFeature) has(h Handle) bool {
	_, ok := f.rows[h]
	return ok
}

func (f *ExplicitFeature) set(h Handle, v value.Value) error {
	v, err := conform(f.typ, f.cats, v)
	if err != nil {
		return err
	}
	if value.IsUnknown(v) || (f.closed && v.Equal(f.def)) {
		delete(f.rows, h)
		return nil
	}
	f.rows[h] = v
	return nil
}

func (f *ExplicitFeature) drop(h Handle) { delete(f.rows, h) }
func (f *ExplicitFeature) purge()        { clear(f.rows) }

func (f *ExplicitFeature) adopt(old Feature) {
	o := old.(*ExplicitFeature)
	if o == f {
		return
	}
	f.rows = o.rows
	o.rows = make(map[Handle]value.Value)
}

// migrate re-validates every row of old against the declaration of f and
// moves them over. The first invalid value aborts the move with both
// features untouched.
func (f *ExplicitFeature) migrate(old *ExplicitFeature) error {
	moved := make(map[Handle]value.Value, len(old.rows))
	for _, h := range slices.Sorted(maps.Keys(old.rows)) {
		v, err := conform(f.typ, f.cats, implicit(old.cats, old.rows[h]))
		if err != nil {
			return err
		}
		if value.IsUnknown(v) || (f.closed && v.Equal(f.def)) {
			continue
		}
		moved[h] = v
	}
	maps.Copy(f.rows, moved)
	clear(old.rows)
	return nil
}

// implicit strips a probability vector that cats filled in on its own, so
// the value can be normalized again against another category list.
func implicit(cats *value.Categories, v value.Value) value.Value {
	if cats == nil {
		return v
	}
	switch tv := v.(type) {
	case *value.Categorical:
		if oh, err := cats.OneHot(tv.Label()); err == nil && oh == tv {
			return value.NewCategorical(tv.Label())
		}
	case *value.MultiCategorical:
		bare := value.NewMultiCategorical(tv.Labels())
		if ind, err := cats.MultiCategorical(bare); err == nil && ind.Equal(tv) {
			return bare
		}
	}
	return v
}

// rowCount is the number of materialized rows.
func (f *ExplicitFeature) rowCount() int {
	return len(f.rows)
}
