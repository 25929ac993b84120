package neighbor

import (
	"fmt"

	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/modelerr"
)

// IncidentConfig configures Incident.
type IncidentConfig struct {
	Schema string
	// Multi returns a multiset in which a self-loop touches its node twice.
	Multi       bool
	IncludeSelf bool
	Cache       bool
}

// Incident returns the items directly touching an item: the edges of a node,
// or the endpoints of an edge.
type Incident struct {
	base
	cfg IncidentConfig
}

func NewIncident(cfg IncidentConfig) *Incident {
	n := &Incident{cfg: cfg}
	n.base = newBase("incident", cfg.Cache, n.compute)
	return n
}

// IncidentFactory reads an IncidentConfig from parameters.
func IncidentFactory(p config.Params, _ Resolver) (Neighbor, error) {
	cfg := IncidentConfig{Schema: p.StringOr("schema", "")}
	unique, err := p.YesNoOr("unique", true)
	if err != nil {
		return nil, err
	}
	cfg.Multi = !unique
	if cfg.IncludeSelf, err = p.YesNoOr("includeself", false); err != nil {
		return nil, err
	}
	if cfg.Cache, err = p.YesNoOr("cache", false); err != nil {
		return nil, err
	}
	return NewIncident(cfg), nil
}

func (n *Incident) compute(it graph.Item, omit *graph.ItemSet) (*graph.ItemSet, error) {
	out := graph.NewItemSet()
	if n.cfg.Multi {
		out = graph.NewMultiset()
	}
	keep := func(c graph.Item) bool {
		return !omit.Has(c) && schemaFilter(n.cfg.Schema).match(c)
	}
	switch v := it.(type) {
	case *graph.Node:
		for _, e := range v.Edges() {
			if !keep(e) {
				continue
			}
			out.Add(e)
			if e.IsLoop() {
				out.Add(e)
			}
		}
	case *graph.Edge:
		for _, c := range v.Endpoints() {
			if keep(c) {
				out.Add(c)
			}
		}
	default:
		return nil, fmt.Errorf("%w: incidence of %T", modelerr.ErrKindMismatch, it)
	}
	if n.cfg.IncludeSelf {
		out.Add(it)
	}
	return out, nil
}
