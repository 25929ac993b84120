package derived

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/neighbor"
	"github.com/specialistvlad/relgraph/internal/value"
)

var aggregateOps = []string{"count", "sum", "mean", "min", "max", "mode", "proportion"}

// Aggregate summarizes a feature over the neighbor set of an item.
//
// Parameters: "feature" (required), "op" (default count), "label" (required
// for proportion: the share of known values rendering as label). Unknown
// values are skipped; numeric operations over no known value yield
// value.Unknown, count yields 0.
func Aggregate(p config.Params, r neighbor.Resolver) (graph.Rule, error) {
	feature, err := p.String("feature")
	if err != nil {
		return nil, err
	}
	op, err := p.OneOfOr("op", "count", aggregateOps...)
	if err != nil {
		return nil, err
	}
	var label string
	if op == "proportion" {
		if label, err = p.String("label"); err != nil {
			return nil, err
		}
	}
	nb, err := resolveNeighbor(p, r)
	if err != nil {
		return nil, err
	}

	return graph.RuleFunc(func(d graph.Decorable) (value.Value, error) {
		it, ok := d.(graph.Item)
		if !ok {
			return nil, fmt.Errorf("%w: neighbors of %T", modelerr.ErrKindMismatch, d)
		}
		set, err := nb.Get(it)
		if err != nil {
			return nil, err
		}
		var known []value.Value
		for _, n := range set.Items() {
			g := n.Owner()
			if g == nil || !g.HasFeature(n, feature) {
				continue
			}
			v, err := g.Value(n, feature)
			if err != nil {
				return nil, err
			}
			if !value.IsUnknown(v) {
				for i := set.Count(n); i > 0; i-- {
					known = append(known, v)
				}
			}
		}
		return reduce(op, label, known)
	}), nil
}

func reduce(op, label string, vs []value.Value) (value.Value, error) {
	switch op {
	case "count":
		return value.MustNumeric(float64(len(vs))), nil
	case "mode":
		return mode(vs), nil
	case "proportion":
		if len(vs) == 0 {
			return value.Unknown, nil
		}
		hits := 0
		for _, v := range vs {
			if v.String() == label {
				hits++
			}
		}
		return value.MustNumeric(float64(hits) / float64(len(vs))), nil
	}

	nums := make([]float64, 0, len(vs))
	for _, v := range vs {
		n, ok := v.(value.Numeric)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs numeric values, got %s", modelerr.ErrInvalidValue, op, v.Kind())
		}
		nums = append(nums, n.Float())
	}
	if len(nums) == 0 {
		if op == "sum" {
			return value.MustNumeric(0), nil
		}
		return value.Unknown, nil
	}
	var out float64
	switch op {
	case "sum", "mean":
		for _, f := range nums {
			out += f
		}
		if op == "mean" {
			out /= float64(len(nums))
		}
	case "min":
		out = slices.Min(nums)
	case "max":
		out = slices.Max(nums)
	}
	// Infinite results are kept; opposite infinities have no sum.
	v, err := value.NewNumeric(out)
	if err != nil {
		return nil, fmt.Errorf("%s over %d values: %w", op, len(nums), err)
	}
	return v, nil
}

// mode returns the most frequent value; ties go to the smallest rendering.
func mode(vs []value.Value) value.Value {
	if len(vs) == 0 {
		return value.Unknown
	}
	type bucket struct {
		v value.Value
		n int
	}
	counts := map[string]*bucket{}
	for _, v := range vs {
		k := v.String()
		if b, ok := counts[k]; ok {
			b.n++
			continue
		}
		counts[k] = &bucket{v: v, n: 1}
	}
	var best *bucket
	var bestKey string
	for k, b := range counts {
		if best == nil || b.n > best.n || b.n == best.n && k < bestKey {
			best, bestKey = b, k
		}
	}
	return best.v
}
