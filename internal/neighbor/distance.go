package neighbor

import (
	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/graph"
)

// Unbounded lets DistanceN expand until no new item is reached.
const Unbounded = -1

// DistanceNConfig configures DistanceN.
type DistanceNConfig struct {
	// Step is the distance-1 neighbor function. Nil means a plain Adjacent.
	Step Neighbor
	// Depth is the number of hops, or Unbounded.
	Depth int
	// Distinct keeps only items first reached at exactly Depth hops. It has
	// no effect when Depth is Unbounded.
	Distinct     bool
	ResultSchema string
	IncludeSelf  bool
	Cache        bool
}

// DistanceN expands breadth-first over a step neighbor function.
type DistanceN struct {
	base
	cfg DistanceNConfig
}

func NewDistanceN(cfg DistanceNConfig) *DistanceN {
	if cfg.Step == nil {
		cfg.Step = NewAdjacent(AdjacentConfig{})
	}
	if cfg.Depth < 0 {
		cfg.Depth = Unbounded
	}
	d := &DistanceN{cfg: cfg}
	d.base = newBase("distancen", cfg.Cache, d.compute)
	return d
}

// DistanceNFactory reads a DistanceNConfig from parameters. The step
// function is the component named by "neighbor", configured from the
// parameters under the "neighbor." prefix.
func DistanceNFactory(p config.Params, r Resolver) (Neighbor, error) {
	var cfg DistanceNConfig
	var err error
	step := p.StringOr("neighbor", "adjacent")
	if cfg.Step, err = r.ResolveNeighbor(step, p.Sub("neighbor")); err != nil {
		return nil, err
	}
	if cfg.Depth, err = p.IntegerOr("depth", Unbounded); err != nil {
		return nil, err
	}
	if cfg.Distinct, err = p.YesNoOr("distinct", false); err != nil {
		return nil, err
	}
	cfg.ResultSchema = p.StringOr("resultschema", "")
	if cfg.IncludeSelf, err = p.YesNoOr("includeself", false); err != nil {
		return nil, err
	}
	if cfg.Cache, err = p.YesNoOr("cache", false); err != nil {
		return nil, err
	}
	return NewDistanceN(cfg), nil
}

func (d *DistanceN) compute(it graph.Item, omit *graph.ItemSet) (*graph.ItemSet, error) {
	visited := graph.NewItemSet(it)
	reached := graph.NewItemSet()
	frontier := []graph.Item{it}

	for hop := 1; len(frontier) > 0 && (d.cfg.Depth == Unbounded || hop <= d.cfg.Depth); hop++ {
		var next []graph.Item
		for _, x := range frontier {
			ns, err := d.cfg.Step.GetOmitting(x, omit)
			if err != nil {
				return nil, err
			}
			for _, n := range ns.Items() {
				if visited.Has(n) {
					continue
				}
				visited.Add(n)
				next = append(next, n)
			}
		}
		if d.cfg.Distinct && d.cfg.Depth != Unbounded {
			reached = graph.NewItemSet(next...)
		} else {
			for _, n := range next {
				reached.Add(n)
			}
		}
		frontier = next
	}

	out := graph.NewItemSet()
	for _, n := range reached.Items() {
		if schemaFilter(d.cfg.ResultSchema).match(n) {
			out.Add(n)
		}
	}
	if d.cfg.IncludeSelf {
		out.Add(it)
	}
	return out, nil
}
