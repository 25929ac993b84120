package hclconfig

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/ident"
	"github.com/specialistvlad/relgraph/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// toValue converts an HCL value into a feature value of the declared type.
// Item references are canonical item identifiers, or `schema.object` keys
// relative to owner.
func toValue(v cty.Value, typ graph.ValueType, owner ident.ID) (value.Value, error) {
	if v.IsNull() {
		return value.Unknown, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value must be known")
	}
	switch typ {
	case graph.NumericType:
		var f float64
		if err := decode(v, cty.Number, &f); err != nil {
			return nil, err
		}
		return value.NewNumeric(f)
	case graph.StringType:
		var s string
		if err := decode(v, cty.String, &s); err != nil {
			return nil, err
		}
		return value.NewString(s), nil
	case graph.CategoricalType:
		if v.Type().IsObjectType() {
			var c struct {
				Label string    `cty:"label"`
				Probs []float64 `cty:"probs"`
			}
			if err := decode(v, cty.Object(map[string]cty.Type{"label": cty.String, "probs": cty.List(cty.Number)}), &c); err != nil {
				return nil, err
			}
			return value.NewCategorical(c.Label, c.Probs...), nil
		}
		var label string
		if err := decode(v, cty.String, &label); err != nil {
			return nil, err
		}
		return value.NewCategorical(label), nil
	case graph.MultiCategoricalType:
		if v.Type().IsObjectType() {
			var m struct {
				Labels []string  `cty:"labels"`
				Probs  []float64 `cty:"probs"`
			}
			if err := decode(v, cty.Object(map[string]cty.Type{"labels": cty.List(cty.String), "probs": cty.List(cty.Number)}), &m); err != nil {
				return nil, err
			}
			return value.NewMultiCategorical(m.Labels, m.Probs...), nil
		}
		var labels []string
		if err := decode(v, cty.List(cty.String), &labels); err != nil {
			return nil, err
		}
		return value.NewMultiCategorical(labels), nil
	case graph.MultiIDType:
		var refs []string
		if err := decode(v, cty.List(cty.String), &refs); err != nil {
			return nil, err
		}
		ids := make([]ident.ItemID, 0, len(refs))
		for _, ref := range refs {
			id, err := parseRef(ref, owner)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return value.NewMultiID(ids...), nil
	case graph.CompositeType:
		return composite(v)
	default:
		return nil, fmt.Errorf("unsupported value type %s", typ)
	}
}

func decode(v cty.Value, want cty.Type, dst any) error {
	conv, err := convert.Convert(v, want)
	if err != nil {
		return fmt.Errorf("expected %s: %w", want.FriendlyName(), err)
	}
	return gocty.FromCtyValue(conv, dst)
}

func composite(v cty.Value) (value.Value, error) {
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, fmt.Errorf("expected an object for a composite value, got %s", v.Type().FriendlyName())
	}
	var entries []value.Entry
	// Entries follow attribute name order.
	for it := v.ElementIterator(); it.Next(); {
		k, child := it.Element()
		label := k.AsString()
		var cv value.Value
		var err error
		switch {
		case child.IsNull():
			cv = value.Unknown
		case child.Type() == cty.Number:
			cv, err = toValue(child, graph.NumericType, ident.ID{})
		case child.Type() == cty.Bool:
			cv = value.NewString(fmt.Sprint(child.True()))
		case child.Type().IsObjectType() || child.Type().IsMapType():
			cv, err = composite(child)
		default:
			cv, err = toValue(child, graph.StringType, ident.ID{})
		}
		if err != nil {
			return nil, fmt.Errorf("composite entry '%s': %w", label, err)
		}
		entries = append(entries, value.Entry{Label: label, Value: cv})
	}
	return value.NewComposite(entries...), nil
}

// parseRef accepts `gschema.gobject.schema.object` or `schema.object`.
func parseRef(ref string, owner ident.ID) (ident.ItemID, error) {
	if strings.Count(ref, ".") == 1 {
		key, err := parseKey(ref)
		if err != nil {
			return ident.ItemID{}, err
		}
		return ident.NewItemID(owner, key.Schema, key.Object)
	}
	return ident.ParseItemID(ref)
}

// parseKey reads a `schema.object` node reference.
func parseKey(ref string) (ident.Key, error) {
	schema, object, ok := strings.Cut(ref, ".")
	if !ok {
		return ident.Key{}, fmt.Errorf("reference %q: expected schema.object", ref)
	}
	if err := ident.ValidateSchemaName(schema); err != nil {
		return ident.Key{}, err
	}
	if err := ident.ValidateObjectName(object); err != nil {
		return ident.Key{}, err
	}
	return ident.Key{Schema: schema, Object: object}, nil
}

// valuesFromExpr evaluates an optional `values = {...}` attribute.
func valuesFromExpr(expr hcl.Expression) (map[string]cty.Value, error) {
	if !isExprDefined(expr) {
		return nil, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() {
		return nil, nil
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, fmt.Errorf("%s: values must be an object, got %s", expr.Range(), v.Type().FriendlyName())
	}
	return v.AsValueMap(), nil
}
