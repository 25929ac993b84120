package neighbor

import (
	"fmt"

	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/modelerr"
)

// CoAffiliateMode selects the shared-affiliation pattern over directed edges.
type CoAffiliateMode string

const (
	// CommonTarget relates nodes pointing at the same affiliate.
	CommonTarget CoAffiliateMode = "common-target"
	// CommonSource relates nodes pointed at by the same affiliate.
	CommonSource CoAffiliateMode = "common-source"
	// BothModes is the union of the two.
	BothModes CoAffiliateMode = "both"
)

// CoAffiliateConfig configures CoAffiliate.
type CoAffiliateConfig struct {
	EdgeSchema      string
	AffiliateSchema string
	ResultSchema    string
	Mode            CoAffiliateMode
	IncludeSelf     bool
	Cache           bool
}

// CoAffiliate returns the nodes sharing an affiliate with the queried node.
// Undirected affiliation edges are followed both ways and ignore Mode.
type CoAffiliate struct {
	base
	cfg CoAffiliateConfig
}

func NewCoAffiliate(cfg CoAffiliateConfig) *CoAffiliate {
	if cfg.Mode == "" {
		cfg.Mode = CommonTarget
	}
	c := &CoAffiliate{cfg: cfg}
	c.base = newBase("coaffiliate", cfg.Cache, c.compute)
	return c
}

// CoAffiliateFactory reads a CoAffiliateConfig from parameters.
func CoAffiliateFactory(p config.Params, _ Resolver) (Neighbor, error) {
	cfg := CoAffiliateConfig{
		EdgeSchema:      p.StringOr("edgeschema", ""),
		AffiliateSchema: p.StringOr("affiliateschema", ""),
		ResultSchema:    p.StringOr("resultschema", ""),
	}
	mode, err := p.OneOfOr("mode", string(CommonTarget), string(CommonTarget), string(CommonSource), string(BothModes))
	if err != nil {
		return nil, err
	}
	cfg.Mode = CoAffiliateMode(mode)
	if cfg.IncludeSelf, err = p.YesNoOr("includeself", false); err != nil {
		return nil, err
	}
	if cfg.Cache, err = p.YesNoOr("cache", false); err != nil {
		return nil, err
	}
	return NewCoAffiliate(cfg), nil
}

func (c *CoAffiliate) compute(it graph.Item, omit *graph.ItemSet) (*graph.ItemSet, error) {
	n, ok := it.(*graph.Node)
	if !ok {
		return nil, fmt.Errorf("%w: co-affiliation of %T", modelerr.ErrKindMismatch, it)
	}
	out := graph.NewItemSet()
	for _, e := range c.edges(n, omit) {
		if e.Directed() && !c.leg(n, e) {
			continue
		}
		a := e.Other(n)
		if omit.Has(a) || !schemaFilter(c.cfg.AffiliateSchema).match(a) {
			continue
		}
		for _, e2 := range c.edges(a, omit) {
			if e2 == e || e2.Directed() != e.Directed() {
				continue
			}
			// The second leg must share the role n plays on the first one.
			if e.Directed() && (e2.Source() == a) != (e.Source() == a) {
				continue
			}
			co := e2.Other(a)
			if co == n || omit.Has(co) || !schemaFilter(c.cfg.ResultSchema).match(co) {
				continue
			}
			out.Add(co)
		}
	}
	if c.cfg.IncludeSelf {
		out.Add(n)
	}
	return out, nil
}

// leg reports whether n plays the role the mode asks for on a directed edge.
func (c *CoAffiliate) leg(n *graph.Node, e *graph.Edge) bool {
	switch c.cfg.Mode {
	case CommonTarget:
		return e.Source() == n
	case CommonSource:
		return e.Target() == n
	default:
		return true
	}
}

func (c *CoAffiliate) edges(n *graph.Node, omit *graph.ItemSet) []*graph.Edge {
	var out []*graph.Edge
	for _, e := range n.Edges() {
		if !omit.Has(e) && schemaFilter(c.cfg.EdgeSchema).match(e) && !e.IsLoop() {
			out = append(out, e)
		}
	}
	return out
}
