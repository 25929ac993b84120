package graph

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/relgraph/internal/modelerr"
)

// UpdateSchema commits an edited schema copy back into the graph. The target
// is the item schema of the same name, or the graph's own schema when next
// is of GraphKind.
//
// Stored values follow their feature by name:
//   - an unchanged declaration keeps its values, and a new definition object
//     takes over the old one's storage;
//   - an explicit feature re-declared with the same value type has its values
//     re-validated against the new declaration;
//   - anything else, including features missing from next, is purged.
//
// A feature whose definition object survives under another name keeps its
// values. The first value failing re-validation aborts the update with
// ErrInvalidValue; features handled before it stay updated.
func (g *Graph) UpdateSchema(next *Schema) error {
	live, err := g.updateTarget(next)
	if err != nil {
		return err
	}

	kept := make(map[Feature]bool, next.Len())
	next.each(func(_ string, f Feature) { kept[f] = true })

	for _, name := range next.Names() {
		nf, _ := next.Get(name)
		if of, err := live.Get(name); err == nil && of != nf && !kept[of] {
			if err := reconcile(of, nf); err != nil {
				g.logger.Debug("Schema update aborted.", "schema", live.name, "feature", name, "error", err)
				return fmt.Errorf("update of feature '%s' in schema '%s': %w", name, live.name, err)
			}
		}
		if live.Has(name) {
			_ = live.Replace(name, nf)
		} else {
			_ = live.Add(name, nf)
		}
		if df, ok := nf.(*DerivedFeature); ok && g.metrics != nil {
			df.memo.Instrument(g.metrics)
		}
	}

	for _, name := range live.Names() {
		if next.Has(name) {
			continue
		}
		of, _ := live.Get(name)
		if !kept[of] {
			of.purge()
		}
		_ = live.Remove(name)
	}
	live.order = slices.Clone(next.order)

	g.logger.Debug("Updated schema.", "graph", g.id.String(), "schema", live.name, "features", live.Names())
	return nil
}

func (g *Graph) updateTarget(next *Schema) (*Schema, error) {
	if next == nil {
		return nil, fmt.Errorf("%w: schema", modelerr.ErrNullDefinition)
	}
	if next.kind == GraphKind {
		if next.name != g.own.name {
			return nil, fmt.Errorf("%w: graph schema '%s' in graph '%s'", modelerr.ErrNotDefined, next.name, g.id)
		}
		return g.own, nil
	}
	live, err := g.liveSchema(next.name)
	if err != nil {
		return nil, err
	}
	if live.kind != next.kind {
		return nil, fmt.Errorf("%w: schema '%s' is %s, update is %s", modelerr.ErrKindMismatch, next.name, live.kind, next.kind)
	}
	return live, nil
}

// reconcile carries the storage of the replaced definition of into nf.
func reconcile(of, nf Feature) error {
	if nf.SameDeclaration(of) {
		nf.adopt(of)
		return nil
	}
	oe, ok1 := of.(*ExplicitFeature)
	ne, ok2 := nf.(*ExplicitFeature)
	if ok1 && ok2 && oe.typ == ne.typ {
		return ne.migrate(oe)
	}
	of.purge()
	return nil
}
