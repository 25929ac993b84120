package graph

import (
	"fmt"

	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/value"
)

// Feature is a feature definition held by a Schema. The only
// implementations are *ExplicitFeature and *DerivedFeature.
type Feature interface {
	// ValueType is the declared type of the feature's values.
	ValueType() ValueType

	// Categories is the declared category list of categorical features, nil
	// otherwise.
	Categories() *value.Categories

	// Copy returns a definition with the same declaration and no stored
	// values or memo entries.
	Copy() Feature

	// SameDeclaration reports whether other declares the same feature, in
	// which case schema updates keep stored values.
	SameDeclaration(other Feature) bool

	// drop forgets everything stored for one decorable.
	drop(h Handle)

	// purge forgets everything stored for every decorable.
	purge()

	// adopt takes over the storage of an old definition with the same
	// declaration.
	adopt(old Feature)
}

func isNilFeature(f Feature) bool {
	switch v := f.(type) {
	case nil:
		return true
	case *ExplicitFeature:
		return v == nil
	case *DerivedFeature:
		return v == nil
	default:
		return false
	}
}

func checkDeclaration(typ ValueType, cats *value.Categories) error {
	if typ < NumericType || typ > CompositeType {
		return fmt.Errorf("%w: unknown value type %d", modelerr.ErrInvalidValue, int(typ))
	}
	if typ.categorical() && cats == nil {
		return fmt.Errorf("%w: %s feature needs a category list", modelerr.ErrInvalidValue, typ)
	}
	if !typ.categorical() && cats != nil {
		return fmt.Errorf("%w: %s feature cannot declare categories", modelerr.ErrInvalidValue, typ)
	}
	return nil
}

// conform checks v against a declaration and returns its normalized form.
// Unknown always conforms.
func conform(typ ValueType, cats *value.Categories, v value.Value) (value.Value, error) {
	if value.IsUnknown(v) {
		return value.Unknown, nil
	}
	if v.Kind() != typ.valueKind() {
		return nil, fmt.Errorf("%w: %s value for %s feature", modelerr.ErrInvalidValue, v.Kind(), typ)
	}
	switch tv := v.(type) {
	case *value.Categorical:
		c, err := cats.Categorical(tv)
		if err != nil {
			return nil, err
		}
		return c, nil
	case *value.MultiCategorical:
		m, err := cats.MultiCategorical(tv)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return v, nil
	}
}
