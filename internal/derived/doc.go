// Package derived provides the built-in rules behind derived features.
//
// A rule is built once per feature from its parameters and then computes a
// value from an item's structural context. Rules that read relational
// context take a neighbor component name ("neighbor", default "adjacent")
// whose own parameters live under the "neighbor." prefix.
//
//	degree      number of incident edges of a node
//	aggregate   count/sum/mean/min/max/mode/proportion of a feature over a neighbor set
//	expression  CEL expression over the item's own feature values
//	neighborids identifiers of a neighbor set as a multi-id-reference value
package derived

import (
	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/neighbor"
)

// Factory builds a rule from its parameters, resolving neighbor components
// through r.
type Factory func(p config.Params, r neighbor.Resolver) (graph.Rule, error)

func resolveNeighbor(p config.Params, r neighbor.Resolver) (neighbor.Neighbor, error) {
	return r.ResolveNeighbor(p.StringOr("neighbor", "adjacent"), p.Sub("neighbor"))
}
