package hclconfig

import (
	"fmt"

	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/registry"
)

// QueryResult is the outcome of one query block.
type QueryResult struct {
	Name      string
	Component string
	Item      graph.Item
	Result    *graph.ItemSet
}

// RunQuery resolves the query's neighbor component and applies it to the
// query item, omitting the listed items.
func RunQuery(g *graph.Graph, reg *registry.Registry, q *QueryBlock) (*QueryResult, error) {
	params, err := paramsFromExpr(q.Params)
	if err != nil {
		return nil, fmt.Errorf("query '%s': %w", q.Name, err)
	}
	res, err := RunNeighbor(g, reg, q.Component, params, q.Item, q.Omit...)
	if err != nil {
		return nil, fmt.Errorf("query '%s': %w", q.Name, err)
	}
	res.Name = q.Name
	return res, nil
}

// RunNeighbor applies the named neighbor component to the item referenced
// as `schema.object`. Params may come from any config source.
func RunNeighbor(g *graph.Graph, reg *registry.Registry, component string, params config.Params, ref string, omit ...string) (*QueryResult, error) {
	nb, err := reg.ResolveNeighbor(component, params)
	if err != nil {
		return nil, err
	}
	it, err := Item(g, ref)
	if err != nil {
		return nil, err
	}
	omitted := graph.NewItemSet()
	for _, o := range omit {
		oit, err := Item(g, o)
		if err != nil {
			return nil, fmt.Errorf("omit: %w", err)
		}
		omitted.Add(oit)
	}
	res, err := nb.GetOmitting(it, omitted)
	if err != nil {
		return nil, err
	}
	return &QueryResult{Name: component, Component: component, Item: it, Result: res}, nil
}

// Item finds the node or edge referenced as `schema.object`.
func Item(g *graph.Graph, ref string) (graph.Item, error) {
	key, err := parseKey(ref)
	if err != nil {
		return nil, err
	}
	it, ok := g.Item(key)
	if !ok {
		return nil, fmt.Errorf("%w: item %s", modelerr.ErrUnresolvedReference, key)
	}
	return it, nil
}
