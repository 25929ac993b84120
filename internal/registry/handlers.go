package registry

import (
	"fmt"
	"log/slog"

	"github.com/specialistvlad/relgraph/internal/derived"
	"github.com/specialistvlad/relgraph/internal/neighbor"
)

// RegisterNeighbor registers a neighbor factory under name.
func (r *Registry) RegisterNeighbor(name string, f neighbor.Factory) {
	if _, exists := r.neighbors[name]; exists {
		panic(fmt.Sprintf("neighbor component with name '%s' already registered", name))
	}
	slog.Debug("Registering neighbor component.", "name", name)
	r.neighbors[name] = f
}

// RegisterRule registers a derived-rule factory under name.
func (r *Registry) RegisterRule(name string, f derived.Factory) {
	if _, exists := r.rules[name]; exists {
		panic(fmt.Sprintf("rule component with name '%s' already registered", name))
	}
	slog.Debug("Registering rule component.", "name", name)
	r.rules[name] = f
}

// NeighborsModule registers the built-in neighbor functions.
type NeighborsModule struct{}

func (NeighborsModule) Register(r *Registry) {
	r.RegisterNeighbor("adjacent", neighbor.AdjacentFactory)
	r.RegisterNeighbor("incident", neighbor.IncidentFactory)
	r.RegisterNeighbor("distancen", neighbor.DistanceNFactory)
	r.RegisterNeighbor("neighborsofneighbors", neighbor.NeighborsOfNeighborsFactory)
	r.RegisterNeighbor("coaffiliate", neighbor.CoAffiliateFactory)
}

// RulesModule registers the built-in derived rules.
type RulesModule struct{}

func (RulesModule) Register(r *Registry) {
	r.RegisterRule("degree", derived.Degree)
	r.RegisterRule("aggregate", derived.Aggregate)
	r.RegisterRule("expression", derived.Expression)
	r.RegisterRule("neighborids", derived.NeighborIDs)
}
