package hclconfig

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Source is a config.Source over flattened HCL attribute values. Objects
// nest with dots, lists and sets join with commas and booleans read as
// yes/no.
type Source struct {
	values map[string]string
}

var _ config.Source = (*Source)(nil)

// NewSource flattens an object or map value. A null value yields an empty
// source.
func NewSource(v cty.Value) (*Source, error) {
	s := &Source{values: make(map[string]string)}
	if v.IsNull() {
		return s, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("parameters must be known values")
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, fmt.Errorf("parameters must be an object, got %s", v.Type().FriendlyName())
	}
	if err := s.flatten("", v); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseParams reads a parameter file whose body holds only attributes.
func ParseParams(src []byte, filename string) (config.Params, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return config.Params{}, fmt.Errorf("failed to parse parameters %s: %w", filename, diags)
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return config.Params{}, fmt.Errorf("failed to read parameters %s: %w", filename, diags)
	}
	obj := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return config.Params{}, fmt.Errorf("parameter '%s' in %s: %w", name, filename, diags)
		}
		obj[name] = v
	}
	s, err := NewSource(cty.ObjectVal(obj))
	if err != nil {
		return config.Params{}, err
	}
	return config.NewParams(s), nil
}

// paramsFromExpr evaluates an optional `params` attribute.
func paramsFromExpr(expr hcl.Expression) (config.Params, error) {
	if !isExprDefined(expr) {
		return config.Empty(), nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return config.Params{}, diags
	}
	s, err := NewSource(v)
	if err != nil {
		return config.Params{}, fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return config.NewParams(s), nil
}

func (s *Source) flatten(prefix string, v cty.Value) error {
	ty := v.Type()
	switch {
	case v.IsNull():
		return nil
	case ty.IsObjectType() || ty.IsMapType():
		for k, child := range v.AsValueMap() {
			if err := s.flatten(prefix+k+".", child); err != nil {
				return err
			}
		}
		return nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		var parts []string
		for _, el := range v.AsValueSlice() {
			str, err := scalar(el)
			if err != nil {
				return fmt.Errorf("parameter '%s': %w", strings.TrimSuffix(prefix, "."), err)
			}
			parts = append(parts, str)
		}
		s.values[strings.TrimSuffix(prefix, ".")] = strings.Join(parts, ",")
		return nil
	default:
		str, err := scalar(v)
		if err != nil {
			return fmt.Errorf("parameter '%s': %w", strings.TrimSuffix(prefix, "."), err)
		}
		s.values[strings.TrimSuffix(prefix, ".")] = str
		return nil
	}
}

func scalar(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", fmt.Errorf("null is not a parameter value")
	}
	if !v.IsKnown() {
		return "", fmt.Errorf("value must be known")
	}
	if v.Type() == cty.Bool {
		if v.True() {
			return "yes", nil
		}
		return "no", nil
	}
	str, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot use %s as a parameter value", v.Type().FriendlyName())
	}
	return str.AsString(), nil
}

func (s *Source) Lookup(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *Source) Names() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// isExprDefined reports whether an optional attribute was written in the
// source. The decoder fills omitted optional expressions with zero-width
// placeholders.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	return rng.End.Byte > rng.Start.Byte
}
