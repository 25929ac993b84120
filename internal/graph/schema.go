package graph

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unique"

	"github.com/google/uuid"
	"github.com/specialistvlad/relgraph/internal/modelerr"
)

var featureNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_:-]*$`)

// ValidateFeatureName checks name against the feature name pattern.
func ValidateFeatureName(name string) error {
	if !featureNameRegex.MatchString(name) {
		return fmt.Errorf("%w: feature name %q", modelerr.ErrInvalidName, name)
	}
	return nil
}

// Schema is an ordered collection of named feature definitions governing one
// kind of decorable.
//
// Schemas handed out by a Graph are disconnected copies: editing them has no
// effect until they are committed with Graph.UpdateSchema.
type Schema struct {
	name     string
	kind     Kind
	order    []unique.Handle[string]
	features map[unique.Handle[string]]Feature
}

// NewSchema returns an empty schema.
func NewSchema(name string, kind Kind) *Schema {
	return &Schema{name: name, kind: kind, features: make(map[unique.Handle[string]]Feature)}
}

func (s *Schema) Name() string { return s.name }
func (s *Schema) Kind() Kind   { return s.kind }

// Len returns the number of features.
func (s *Schema) Len() int { return len(s.order) }

// Add appends a new feature.
func (s *Schema) Add(name string, f Feature) error {
	if err := ValidateFeatureName(name); err != nil {
		return err
	}
	if isNilFeature(f) {
		return fmt.Errorf("%w: feature '%s'", modelerr.ErrNullDefinition, name)
	}
	h := unique.Make(name)
	if _, ok := s.features[h]; ok {
		return fmt.Errorf("%w: feature '%s' in schema '%s'", modelerr.ErrAlreadyDefined, name, s.name)
	}
	s.order = append(s.order, h)
	s.features[h] = f
	return nil
}

// Replace swaps the definition of an existing feature, keeping its position.
func (s *Schema) Replace(name string, f Feature) error {
	if isNilFeature(f) {
		return fmt.Errorf("%w: feature '%s'", modelerr.ErrNullDefinition, name)
	}
	h := unique.Make(name)
	if _, ok := s.features[h]; !ok {
		return fmt.Errorf("%w: feature '%s' in schema '%s'", modelerr.ErrNotDefined, name, s.name)
	}
	s.features[h] = f
	return nil
}

// Remove deletes a feature.
func (s *Schema) Remove(name string) error {
	h := unique.Make(name)
	if _, ok := s.features[h]; !ok {
		return fmt.Errorf("%w: feature '%s' in schema '%s'", modelerr.ErrNotDefined, name, s.name)
	}
	delete(s.features, h)
	s.order = slices.DeleteFunc(s.order, func(x unique.Handle[string]) bool { return x == h })
	return nil
}

// RemoveAll deletes every feature.
func (s *Schema) RemoveAll() {
	s.order = nil
	clear(s.features)
}

// Get returns the definition of name.
func (s *Schema) Get(name string) (Feature, error) {
	f, ok := s.features[unique.Make(name)]
	if !ok {
		return nil, fmt.Errorf("%w: feature '%s' in schema '%s'", modelerr.ErrNotDefined, name, s.name)
	}
	return f, nil
}

// Has reports whether name is defined.
func (s *Schema) Has(name string) bool {
	_, ok := s.features[unique.Make(name)]
	return ok
}

// Names returns feature names in insertion order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.order))
	for i, h := range s.order {
		out[i] = h.Value()
	}
	return out
}

// Copy returns a schema sharing the feature definitions of s.
func (s *Schema) Copy() *Schema {
	c := NewSchema(s.name, s.kind)
	c.order = slices.Clone(s.order)
	for h, f := range s.features {
		c.features[h] = f
	}
	return c
}

// CopyWithFeatures returns a schema holding fresh copies of every feature
// definition. Stored values and memo entries are not carried over.
func (s *Schema) CopyWithFeatures() *Schema {
	c := NewSchema(s.name, s.kind)
	c.order = slices.Clone(s.order)
	for h, f := range s.features {
		c.features[h] = f.Copy()
	}
	return c
}

// GenerateUniqueFeatureName returns a name not yet used by s.
func (s *Schema) GenerateUniqueFeatureName() string {
	for {
		name := "tmp_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		if !s.Has(name) {
			return name
		}
	}
}

// each visits features in order.
func (s *Schema) each(fn func(name string, f Feature)) {
	for _, h := range s.order {
		fn(h.Value(), s.features[h])
	}
}

func (s *Schema) String() string {
	return fmt.Sprintf("%s schema '%s' %v", s.kind, s.name, s.Names())
}
