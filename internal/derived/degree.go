package derived

import (
	"fmt"

	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/neighbor"
	"github.com/specialistvlad/relgraph/internal/value"
)

// Degree counts the incident edges of a node, optionally restricted to an
// edge schema and to the node's role on directed edges ("out" or "in").
// A self-loop counts once.
func Degree(p config.Params, _ neighbor.Resolver) (graph.Rule, error) {
	schema := p.StringOr("schema", "")
	dir, err := p.OneOfOr("direction", "both", "both", "out", "in")
	if err != nil {
		return nil, err
	}
	return graph.RuleFunc(func(d graph.Decorable) (value.Value, error) {
		n, ok := d.(*graph.Node)
		if !ok {
			return nil, fmt.Errorf("%w: degree of %T", modelerr.ErrKindMismatch, d)
		}
		count := 0
		for _, e := range n.Edges() {
			if schema != "" && e.SchemaName() != schema {
				continue
			}
			if e.Directed() {
				if dir == "out" && e.Source() != n || dir == "in" && e.Target() != n {
					continue
				}
			}
			count++
		}
		return value.MustNumeric(float64(count)), nil
	}), nil
}

// NeighborIDs returns the identifiers of the configured neighbor set.
func NeighborIDs(p config.Params, r neighbor.Resolver) (graph.Rule, error) {
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
		return value.NewMultiID(set.IDs()...), nil
	}), nil
}
