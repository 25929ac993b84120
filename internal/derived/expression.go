package derived

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/neighbor"
	"github.com/specialistvlad/relgraph/internal/value"
)

var expressionResults = []string{"numeric", "string", "categorical"}

// Expression evaluates a CEL expression over the item's own features.
//
// The expression sees a map `f` from feature name to value: numbers as
// doubles, strings and categorical labels as strings, multi-categorical
// label sets and reference sets as lists of strings. Unknown values are left
// out of the map, so expressions guard optional features with has(f.name).
// The "result" parameter (numeric, string, categorical) selects the value
// type built from the outcome; booleans become 1 or 0 for numeric results.
func Expression(p config.Params, _ neighbor.Resolver) (graph.Rule, error) {
	src, err := p.String("expr")
	if err != nil {
		return nil, err
	}
	result, err := p.OneOfOr("result", "numeric", expressionResults...)
	if err != nil {
		return nil, err
	}

	env, err := cel.NewEnv(cel.Variable("f", cel.MapType(cel.StringType, cel.DynType)))
	if err != nil {
		return nil, fmt.Errorf("failed to create expression environment: %w", err)
	}
	ast, iss := env.Compile(src)
	if iss.Err() != nil {
		return nil, &modelerr.ConfigurationError{Name: "expr", Err: iss.Err()}
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, &modelerr.ConfigurationError{Name: "expr", Err: err}
	}

	return graph.RuleFunc(func(d graph.Decorable) (value.Value, error) {
		vars, err := features(d)
		if err != nil {
			return nil, err
		}
		out, _, err := prg.Eval(map[string]any{"f": vars})
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate '%s': %w", src, err)
		}
		return fromCEL(result, out.Value())
	}), nil
}

// features collects the known explicit values of d's schema. Derived
// features are skipped, so an expression cannot recurse into itself.
func features(d graph.Decorable) (map[string]any, error) {
	g := d.Owner()
	if g == nil {
		return nil, fmt.Errorf("%w: item has been removed", modelerr.ErrForeignItem)
	}
	var s *graph.Schema
	var err error
	if d == graph.Decorable(g) {
		s = g.GraphSchema()
	} else if s, err = g.Schema(d.SchemaName()); err != nil {
		return nil, err
	}

	vars := make(map[string]any, s.Len())
	for _, name := range s.Names() {
		f, _ := s.Get(name)
		if _, ok := f.(*graph.ExplicitFeature); !ok {
			continue
		}
		v, err := g.Value(d, name)
		if err != nil {
			return nil, err
		}
		if cv, ok := toCEL(v); ok {
			vars[name] = cv
		}
	}
	return vars, nil
}

func toCEL(v value.Value) (any, bool) {
	switch tv := v.(type) {
	case value.Numeric:
		return tv.Float(), true
	case value.String:
		return tv.Text(), true
	case *value.Categorical:
		return tv.Label(), true
	case *value.MultiCategorical:
		return tv.Labels(), true
	case value.MultiID:
		ids := tv.IDs()
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = id.String()
		}
		return out, true
	default:
		return nil, false
	}
}

func fromCEL(result string, out any) (value.Value, error) {
	switch result {
	case "numeric":
		switch n := out.(type) {
		case float64:
			v, err := value.NewNumeric(n)
			if err != nil {
				return nil, err
			}
			return v, nil
		case int64:
			return value.MustNumeric(float64(n)), nil
		case uint64:
			return value.MustNumeric(float64(n)), nil
		case bool:
			if n {
				return value.MustNumeric(1), nil
			}
			return value.MustNumeric(0), nil
		}
	case "string", "categorical":
		var s string
		switch tv := out.(type) {
		case string:
			s = tv
		case bool, int64, uint64, float64:
			s = fmt.Sprint(tv)
		default:
			return nil, fmt.Errorf("%w: expression produced %T", modelerr.ErrInvalidValue, out)
		}
		if result == "string" {
			return value.NewString(s), nil
		}
		return value.NewCategorical(s), nil
	}
	return nil, fmt.Errorf("%w: expression produced %T for a %s result", modelerr.ErrInvalidValue, out, result)
}
