package graph

import (
	"fmt"

	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/memo"
	"github.com/specialistvlad/relgraph/internal/value"
)

// Rule computes a derived value from a decorable's structural context.
type Rule interface {
	Compute(d Decorable) (value.Value, error)
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(d Decorable) (value.Value, error)

func (f RuleFunc) Compute(d Decorable) (value.Value, error) { return f(d) }

// RuleFactory builds a Rule from its parameters. It runs once per
// DerivedFeature, on first use.
type RuleFactory func(p config.Params) (Rule, error)

// DerivedSpec declares a derived feature.
type DerivedSpec struct {
	Type       ValueType
	Categories *value.Categories
	// Component is the registered name of the rule; together with Params it
	// identifies the declaration during schema updates.
	Component string
	Params    config.Params
	Factory   RuleFactory
	Caching   bool
}

type derivedState int

const (
	uninitialized derivedState = iota
	ready
)

// DerivedFeature computes values on demand and optionally memoizes them per
// decorable. The memo is never invalidated automatically.
type DerivedFeature struct {
	spec DerivedSpec

	state derivedState
	rule  Rule

	caching bool
	memo    *memo.Table[Handle, value.Value]
}

// NewDerived validates spec and returns an uninitialized feature.
func NewDerived(spec DerivedSpec) (*DerivedFeature, error) {
	if err := checkDeclaration(spec.Type, spec.Categories); err != nil {
		return nil, err
	}
	if spec.Factory == nil {
		return nil, fmt.Errorf("derived feature '%s' has no rule factory", spec.Component)
	}
	return &DerivedFeature{
		spec:    spec,
		caching: spec.Caching,
		memo:    memo.New[Handle, value.Value](spec.Component),
	}, nil
}

func (f *DerivedFeature) ValueType() ValueType          { return f.spec.Type }
func (f *DerivedFeature) Categories() *value.Categories { return f.spec.Categories }

// Component returns the registered rule name.
func (f *DerivedFeature) Component() string { return f.spec.Component }

// Params returns the rule parameters.
func (f *DerivedFeature) Params() config.Params { return f.spec.Params }

// Ready reports whether the rule has been built.
func (f *DerivedFeature) Ready() bool { return f.state == ready }

// Caching reports whether computed values are memoized.
func (f *DerivedFeature) Caching() bool { return f.caching }

// SetCaching switches memoization. Any change of the flag clears the memo so
// the two modes never share entries.
func (f *DerivedFeature) SetCaching(on bool) {
	if on == f.caching {
		return
	}
	f.memo.Clear()
	f.caching = on
}

// Invalidate drops the memo entry of d.
func (f *DerivedFeature) Invalidate(d Decorable) {
	f.memo.Delete(d.Handle())
}

// InvalidateAll drops every memo entry.
func (f *DerivedFeature) InvalidateAll() {
	f.memo.Clear()
}

// Stats exposes the memo table counters.
func (f *DerivedFeature) Stats() memo.Stats {
	return f.memo.Stats()
}

// Copy returns an uninitialized feature with the same configuration and an
// empty memo, whatever the state of f.
func (f *DerivedFeature) Copy() Feature {
	spec := f.spec
	spec.Caching = f.caching
	return &DerivedFeature{spec: spec, caching: f.caching, memo: memo.New[Handle, value.Value](spec.Component)}
}

func (f *DerivedFeature) SameDeclaration(other Feature) bool {
	o, ok := other.(*DerivedFeature)
	if !ok || isNilFeature(o) {
		return false
	}
	return f.spec.Type == o.spec.Type &&
		f.spec.Categories.Equal(o.spec.Categories) &&
		f.spec.Component == o.spec.Component &&
		f.spec.Params.Equal(o.spec.Params) &&
		f.caching == o.caching
}

func (f *DerivedFeature) init() error {
	if f.state == ready {
		return nil
	}
	rule, err := f.spec.Factory(f.spec.Params)
	if err != nil {
		return fmt.Errorf("failed to initialize derived rule '%s': %w", f.spec.Component, err)
	}
	f.rule = rule
	f.state = ready
	return nil
}

func (f *DerivedFeature) value(d Decorable) (value.Value, error) {
	if err := f.init(); err != nil {
		return nil, err
	}
	if f.caching {
		if v, ok := f.memo.Get(d.Handle()); ok {
			return v, nil
		}
	}
	v, err := f.rule.Compute(d)
	if err != nil {
		return nil, err
	}
	v, err = conform(f.spec.Type, f.spec.Categories, v)
	if err != nil {
		return nil, fmt.Errorf("derived rule '%s' produced a bad value: %w", f.spec.Component, err)
	}
	if f.caching {
		f.memo.Put(d.Handle(), v)
	}
	return v, nil
}

func (f *DerivedFeature) drop(h Handle) { f.memo.Delete(h) }
func (f *DerivedFeature) purge()        { f.memo.Clear() }

func (f *DerivedFeature) adopt(old Feature) {
	o := old.(*DerivedFeature)
	if o == f {
		return
	}
	f.memo, o.memo = o.memo, memo.New[Handle, value.Value](o.spec.Component)
	if f.state != ready && o.state == ready {
		f.rule, f.state = o.rule, ready
	}
}
