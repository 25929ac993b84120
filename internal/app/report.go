package app

import (
	"fmt"
	"strings"

	"github.com/prometheus/common/expfmt"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/hclconfig"
)

func (a *App) writeResult(res *hclconfig.QueryResult) {
	ids := res.Result.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	fmt.Fprintf(a.outW, "query %s (%s) of %s: [%s]\n", res.Name, res.Component, res.Item.ID(), strings.Join(parts, ", "))
}

// writeValues prints every feature value of the graph and its items, in
// schema declaration order.
func (a *App) writeValues(g *graph.Graph) error {
	if err := a.writeDecorable(g, g.GraphSchema(), g, g.String()); err != nil {
		return err
	}
	for _, name := range g.SchemaNames(graph.NodeKind) {
		s, err := g.Schema(name)
		if err != nil {
			return err
		}
		for _, n := range g.Nodes(name) {
			if err := a.writeDecorable(g, s, n, n.ID().String()); err != nil {
				return err
			}
		}
	}
	for _, kind := range []graph.Kind{graph.DirectedEdgeKind, graph.UndirectedEdgeKind} {
		for _, name := range g.SchemaNames(kind) {
			s, err := g.Schema(name)
			if err != nil {
				return err
			}
			for _, e := range g.Edges(name) {
				if err := a.writeDecorable(g, s, e, e.ID().String()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (a *App) writeDecorable(g *graph.Graph, s *graph.Schema, d graph.Decorable, label string) error {
	fmt.Fprintf(a.outW, "%s %s\n", s.Kind(), label)
	for _, name := range s.Names() {
		v, err := g.Value(d, name)
		if err != nil {
			return fmt.Errorf("value of %s on %s: %w", name, label, err)
		}
		fmt.Fprintf(a.outW, "  %s = %s\n", name, v)
	}
	return nil
}

func (a *App) writeMetrics() error {
	families, err := a.prom.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(a.outW, mf); err != nil {
			return err
		}
	}
	return nil
}
