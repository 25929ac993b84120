package hclconfig

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/relgraph/internal/ctxlog"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/ident"
	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/registry"
	"github.com/specialistvlad/relgraph/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Build creates the graph a model describes. Component names are checked
// against reg before anything is created.
func Build(ctx context.Context, m *Model, reg *registry.Registry, opts ...graph.Option) (*graph.Graph, error) {
	if err := reg.Validate(m.references()); err != nil {
		return nil, err
	}

	id, err := ident.NewID(m.Graph.Schema, m.Graph.Object)
	if err != nil {
		return nil, fmt.Errorf("graph block: %w", err)
	}
	ctx = ctxlog.With(ctx, "graph", id.String())
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building graph.", "schemas", len(m.Schemas))
	g, err := graph.New(id, opts...)
	if err != nil {
		return nil, err
	}
	b := &builder{g: g, reg: reg}
	if err := b.build(m); err != nil {
		g.Close()
		return nil, err
	}
	logger.Info("Graph built.", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

type builder struct {
	g   *graph.Graph
	reg *registry.Registry
}

func (b *builder) build(m *Model) error {
	own := b.g.GraphSchema()
	if err := b.addFeatures(own, m.Graph.Features); err != nil {
		return err
	}
	if err := b.g.UpdateSchema(own); err != nil {
		return err
	}

	for _, sb := range m.Schemas {
		kind, err := graph.ParseKind(sb.Kind)
		if err != nil {
			return fmt.Errorf("schema '%s': %w", sb.Name, err)
		}
		if err := b.g.DefineSchema(sb.Name, kind); err != nil {
			return err
		}
		s, err := b.g.Schema(sb.Name)
		if err != nil {
			return err
		}
		if err := b.addFeatures(s, sb.Features); err != nil {
			return err
		}
		if err := b.g.UpdateSchema(s); err != nil {
			return err
		}
	}

	for _, nb := range m.Nodes {
		if _, err := b.g.AddNode(nb.Schema, nb.Object); err != nil {
			return fmt.Errorf("node '%s.%s': %w", nb.Schema, nb.Object, err)
		}
	}
	for _, eb := range m.Edges {
		src, err := b.node(eb.Source)
		if err != nil {
			return fmt.Errorf("edge '%s.%s' source: %w", eb.Schema, eb.Object, err)
		}
		dst, err := b.node(eb.Target)
		if err != nil {
			return fmt.Errorf("edge '%s.%s' target: %w", eb.Schema, eb.Object, err)
		}
		if _, err := b.g.AddEdge(eb.Schema, eb.Object, src, dst); err != nil {
			return fmt.Errorf("edge '%s.%s': %w", eb.Schema, eb.Object, err)
		}
	}

	// Values go last so references may name any item of the model.
	if err := b.setValues(b.g, own, m.Graph.Values); err != nil {
		return fmt.Errorf("graph values: %w", err)
	}
	for _, nb := range m.Nodes {
		n, _ := b.g.Node(ident.Key{Schema: nb.Schema, Object: nb.Object})
		if err := b.setItemValues(n, nb.Values); err != nil {
			return err
		}
	}
	for _, eb := range m.Edges {
		e, _ := b.g.Edge(ident.Key{Schema: eb.Schema, Object: eb.Object})
		if err := b.setItemValues(e, eb.Values); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) addFeatures(s *graph.Schema, blocks []*FeatureBlock) error {
	for _, fb := range blocks {
		f, err := b.feature(fb)
		if err != nil {
			return fmt.Errorf("%s: feature '%s' of schema '%s': %w", fb.DeclRange, fb.Name, s.Name(), err)
		}
		if err := s.Add(fb.Name, f); err != nil {
			return fmt.Errorf("%s: %w", fb.DeclRange, err)
		}
	}
	return nil
}

func (b *builder) feature(fb *FeatureBlock) (graph.Feature, error) {
	typ, err := graph.ParseValueType(fb.Type)
	if err != nil {
		return nil, err
	}
	var cats *value.Categories
	if len(fb.Categories) > 0 {
		if cats, err = value.NewCategories(fb.Categories...); err != nil {
			return nil, err
		}
	}

	if fb.Rule != "" {
		params, err := paramsFromExpr(fb.Params)
		if err != nil {
			return nil, err
		}
		return b.reg.Derived(typ, cats, fb.Rule, params, fb.Cache)
	}
	if !fb.Closed {
		return graph.NewExplicit(typ, cats)
	}
	if !isExprDefined(fb.Default) {
		return nil, fmt.Errorf("%w: closed feature needs a default", modelerr.ErrInvalidValue)
	}
	raw, diags := fb.Default.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	def, err := toValue(raw, typ, b.g.ID())
	if err != nil {
		return nil, err
	}
	return graph.NewClosed(typ, cats, def)
}

func (b *builder) node(ref string) (*graph.Node, error) {
	key, err := parseKey(ref)
	if err != nil {
		return nil, err
	}
	n, ok := b.g.Node(key)
	if !ok {
		return nil, fmt.Errorf("%w: node %s", modelerr.ErrUnresolvedReference, key)
	}
	return n, nil
}

func (b *builder) setItemValues(it graph.Item, expr hcl.Expression) error {
	s, err := b.g.Schema(it.SchemaName())
	if err != nil {
		return err
	}
	if err := b.setValues(it, s, expr); err != nil {
		return fmt.Errorf("values of %s: %w", it.ID(), err)
	}
	return nil
}

func (b *builder) setValues(d graph.Decorable, s *graph.Schema, expr hcl.Expression) error {
	values, err := valuesFromExpr(expr)
	if err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if err := b.setValue(d, s, name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) setValue(d graph.Decorable, s *graph.Schema, name string, raw cty.Value) error {
	f, err := s.Get(name)
	if err != nil {
		return err
	}
	v, err := toValue(raw, f.ValueType(), b.g.ID())
	if err != nil {
		return fmt.Errorf("feature '%s': %w", name, err)
	}
	return b.g.SetValue(d, name, v)
}

// references lists every component name the model uses.
func (m *Model) references() []registry.Reference {
	var refs []registry.Reference
	addFeatures := func(owner string, blocks []*FeatureBlock) {
		for _, fb := range blocks {
			if fb.Rule != "" {
				refs = append(refs, registry.Reference{Where: fmt.Sprintf("%s feature '%s'", owner, fb.Name), Name: fb.Rule})
			}
		}
	}
	if m.Graph != nil {
		addFeatures("graph", m.Graph.Features)
	}
	for _, sb := range m.Schemas {
		addFeatures(fmt.Sprintf("schema '%s'", sb.Name), sb.Features)
	}
	for _, q := range m.Queries {
		refs = append(refs, registry.Reference{Where: fmt.Sprintf("query '%s'", q.Name), Neighbor: true, Name: q.Component})
	}
	return refs
}
