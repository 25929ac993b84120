package neighbor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/modelerr"
)

// NeighborsOfNeighbors chains neighbor functions: the result of stage k is
// the input set of stage k+1. The queried item is dropped from the final
// result.
type NeighborsOfNeighbors struct {
	base
	stages []Neighbor
}

func NewNeighborsOfNeighbors(cache bool, stages ...Neighbor) *NeighborsOfNeighbors {
	n := &NeighborsOfNeighbors{stages: stages}
	n.base = newBase("neighborsofneighbors", cache, n.compute)
	return n
}

// NeighborsOfNeighborsFactory reads the comma separated "stages" list. Stage
// i is configured from the parameters under "stage<i>.".
func NeighborsOfNeighborsFactory(p config.Params, r Resolver) (Neighbor, error) {
	raw, err := p.String("stages")
	if err != nil {
		return nil, err
	}
	var stages []Neighbor
	for i, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &modelerr.ConfigurationError{Name: "stages", Err: errors.New("empty stage name")}
		}
		s, err := r.ResolveNeighbor(name, p.Sub(fmt.Sprintf("stage%d", i)))
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		stages = append(stages, s)
	}
	cache, err := p.YesNoOr("cache", false)
	if err != nil {
		return nil, err
	}
	return NewNeighborsOfNeighbors(cache, stages...), nil
}

func (n *NeighborsOfNeighbors) compute(it graph.Item, omit *graph.ItemSet) (*graph.ItemSet, error) {
	current := graph.NewItemSet(it)
	for _, stage := range n.stages {
		next := graph.NewItemSet()
		for _, x := range current.Items() {
			ns, err := stage.GetOmitting(x, omit)
			if err != nil {
				return nil, err
			}
			for _, y := range ns.Items() {
				next.Add(y)
			}
		}
		current = next
	}
	current.Remove(it)
	return current, nil
}
