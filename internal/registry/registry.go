package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/derived"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/modelerr"
	"github.com/specialistvlad/relgraph/internal/neighbor"
	"github.com/specialistvlad/relgraph/internal/value"
)

// Module contributes components to a registry.
type Module interface {
	Register(r *Registry)
}

// Registry holds the neighbor and derived-rule factories of an application.
type Registry struct {
	neighbors map[string]neighbor.Factory
	rules     map[string]derived.Factory
}

// New creates an empty registry and registers every module into it.
func New(modules ...Module) *Registry {
	r := &Registry{
		neighbors: make(map[string]neighbor.Factory),
		rules:     make(map[string]derived.Factory),
	}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the shared registry holding the built-in components.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = New(NeighborsModule{}, RulesModule{})
	})
	return defaultReg
}

// ResolveNeighbor builds the neighbor component registered under name.
func (r *Registry) ResolveNeighbor(name string, p config.Params) (neighbor.Neighbor, error) {
	f, ok := r.neighbors[name]
	if !ok {
		return nil, fmt.Errorf("%w: neighbor '%s' (known: %v)", modelerr.ErrUnresolvableComponent, name, r.NeighborNames())
	}
	slog.Debug("Resolving neighbor component.", "name", name)
	return f(p, r)
}

// ResolveRule builds the derived rule registered under name.
func (r *Registry) ResolveRule(name string, p config.Params) (graph.Rule, error) {
	f, ok := r.rules[name]
	if !ok {
		return nil, fmt.Errorf("%w: rule '%s' (known: %v)", modelerr.ErrUnresolvableComponent, name, r.RuleNames())
	}
	slog.Debug("Resolving rule component.", "name", name)
	return f(p, r)
}

// HasRule reports whether a rule is registered under name.
func (r *Registry) HasRule(name string) bool {
	_, ok := r.rules[name]
	return ok
}

// HasNeighbor reports whether a neighbor component is registered under name.
func (r *Registry) HasNeighbor(name string) bool {
	_, ok := r.neighbors[name]
	return ok
}

// NeighborNames lists the registered neighbor components, sorted.
func (r *Registry) NeighborNames() []string {
	return sortedKeys(r.neighbors)
}

// RuleNames lists the registered rules, sorted.
func (r *Registry) RuleNames() []string {
	return sortedKeys(r.rules)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Derived declares a derived feature computed by the rule registered under
// component. The rule is resolved when the feature is first evaluated, but
// an unknown name is reported right away.
func (r *Registry) Derived(typ graph.ValueType, cats *value.Categories, component string, p config.Params, caching bool) (*graph.DerivedFeature, error) {
	if !r.HasRule(component) {
		return nil, fmt.Errorf("%w: rule '%s'", modelerr.ErrUnresolvableComponent, component)
	}
	return graph.NewDerived(graph.DerivedSpec{
		Type:       typ,
		Categories: cats,
		Component:  component,
		Params:     p,
		Caching:    caching,
		Factory: func(p config.Params) (graph.Rule, error) {
			return r.ResolveRule(component, p)
		},
	})
}
