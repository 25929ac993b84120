package neighbor

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/value"
)

// Direction restricts which end of a directed edge the queried node must be.
type Direction string

const (
	Both   Direction = "both"
	Source Direction = "source"
	Target Direction = "target"
)

// AdjacentConfig configures Adjacent. For a node query the incident items
// are edges and the adjacent items are nodes; for an edge query it is the
// other way round.
type AdjacentConfig struct {
	// IncidentSchema restricts the connecting items.
	IncidentSchema string
	// AdjacentSchema restricts the result items.
	AdjacentSchema string
	// Feature keeps only connecting items whose value of this feature is
	// known, or renders as FeatureValue when that is set.
	Feature      string
	FeatureValue string
	Direction    Direction
	IncludeSelf  bool
	Cache        bool
}

// Adjacent returns the items one connecting item away: the other endpoints
// of a node's edges, or the other edges of an edge's endpoints.
type Adjacent struct {
	base
	cfg AdjacentConfig
}

// NewAdjacent builds an Adjacent neighbor function.
func NewAdjacent(cfg AdjacentConfig) *Adjacent {
	if cfg.Direction == "" {
		cfg.Direction = Both
	}
	a := &Adjacent{cfg: cfg}
	a.base = newBase("adjacent", cfg.Cache, a.compute)
	return a
}

// AdjacentFactory reads an AdjacentConfig from parameters.
func AdjacentFactory(p config.Params, _ Resolver) (Neighbor, error) {
	var cfg AdjacentConfig
	cfg.IncidentSchema = p.StringOr("incidentschema", "")
	cfg.AdjacentSchema = p.StringOr("adjacentschema", "")
	cfg.Feature = p.StringOr("feature", "")
	cfg.FeatureValue = p.StringOr("featurevalue", "")
	if cfg.FeatureValue != "" && cfg.Feature == "" {
		return nil, &modelerr.ConfigurationError{Name: "feature", Err: errors.New("is required with featurevalue")}
	}
	dir, err := p.OneOfOr("direction", string(Both), string(Both), string(Source), string(Target))
	if err != nil {
		return nil, err
	}
	cfg.Direction = Direction(dir)
	if cfg.IncludeSelf, err = p.YesNoOr("includeself", false); err != nil {
		return nil, err
	}
	if cfg.Cache, err = p.YesNoOr("cache", false); err != nil {
		return nil, err
	}
	return NewAdjacent(cfg), nil
}

// Config returns the configuration.
func (a *Adjacent) Config() AdjacentConfig { return a.cfg }

func (a *Adjacent) compute(it graph.Item, omit *graph.ItemSet) (*graph.ItemSet, error) {
	out := graph.NewItemSet()
	switch v := it.(type) {
	case *graph.Node:
		for _, e := range v.Edges() {
			ok, err := a.connects(v, e, e.Source() == v, e.Target() == v, omit)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			for _, n := range e.Endpoints() {
				a.add(out, it, n, omit)
			}
		}
	case *graph.Edge:
		seen := map[*graph.Node]bool{}
		for i, n := range v.Endpoints() {
			if seen[n] {
				continue
			}
			seen[n] = true
			ok, err := a.connects(v, n, i == 0 || v.IsLoop(), i == 1 || v.IsLoop(), omit)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			for _, e := range n.Edges() {
				a.add(out, it, e, omit)
			}
		}
	default:
		return nil, fmt.Errorf("%w: adjacency of %T", modelerr.ErrKindMismatch, it)
	}
	if a.cfg.IncludeSelf {
		out.Add(it)
	}
	return out, nil
}

// connects applies the restrictions on the connecting item. asSource and
// asTarget tell which roles the queried item plays on a directed edge.
func (a *Adjacent) connects(q graph.Item, via graph.Item, asSource, asTarget bool, omit *graph.ItemSet) (bool, error) {
	if omit.Has(via) || !schemaFilter(a.cfg.IncidentSchema).match(via) {
		return false, nil
	}
	if a.cfg.Direction != Both {
		if directedOf(q, via) != nil {
			if a.cfg.Direction == Source && !asSource {
				return false, nil
			}
			if a.cfg.Direction == Target && !asTarget {
				return false, nil
			}
		}
	}
	if a.cfg.Feature == "" {
		return true, nil
	}
	g := via.Owner()
	if g == nil || !g.HasFeature(via, a.cfg.Feature) {
		return false, nil
	}
	v, err := g.Value(via, a.cfg.Feature)
	if err != nil {
		return false, err
	}
	if value.IsUnknown(v) {
		return false, nil
	}
	return a.cfg.FeatureValue == "" || v.String() == a.cfg.FeatureValue, nil
}

// directedOf returns the directed edge taking part in a node/edge pair.
func directedOf(a, b graph.Item) *graph.Edge {
	for _, it := range []graph.Item{a, b} {
		if e, ok := it.(*graph.Edge); ok && e.Directed() {
			return e
		}
	}
	return nil
}

func (a *Adjacent) add(out *graph.ItemSet, q, cand graph.Item, omit *graph.ItemSet) {
	if cand == q || omit.Has(cand) || !schemaFilter(a.cfg.AdjacentSchema).match(cand) {
		return
	}
	out.Add(cand)
}
