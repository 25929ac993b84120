package value

import (
	"slices"
	"strconv"
	"strings"
)

// Categorical is a single label with an optional probability vector over the
// category list of the feature it belongs to.
type Categorical struct {
	label string
	probs []float64
}

// NewCategorical builds a categorical value. Leaving probs empty means the
// implicit one-hot distribution on label.
func NewCategorical(label string, probs ...float64) *Categorical {
	return &Categorical{label: label, probs: slices.Clone(probs)}
}

func (c *Categorical) Label() string { return c.label }
func (c *Categorical) Kind() Kind    { return KindCategorical }

// HasProbabilities reports whether an explicit vector was supplied.
func (c *Categorical) HasProbabilities() bool { return len(c.probs) > 0 }

// Probabilities returns a copy of the probability vector, or nil.
func (c *Categorical) Probabilities() []float64 { return slices.Clone(c.probs) }

func (c *Categorical) Equal(other Value) bool {
	o, ok := other.(*Categorical)
	if !ok {
		return false
	}
	if o == c {
		return true
	}
	return o.label == c.label && slices.Equal(o.probs, c.probs)
}

func (c *Categorical) String() string { return c.label }

// MultiCategorical is a set of labels with an optional probability vector.
type MultiCategorical struct {
	labels []string
	probs  []float64
}

// NewMultiCategorical sorts and de-duplicates labels.
func NewMultiCategorical(labels []string, probs ...float64) *MultiCategorical {
	sorted := slices.Clone(labels)
	slices.Sort(sorted)
	return &MultiCategorical{labels: slices.Compact(sorted), probs: slices.Clone(probs)}
}

func (m *MultiCategorical) Labels() []string         { return slices.Clone(m.labels) }
func (m *MultiCategorical) Kind() Kind               { return KindMultiCategorical }
func (m *MultiCategorical) HasProbabilities() bool   { return len(m.probs) > 0 }
func (m *MultiCategorical) Probabilities() []float64 { return slices.Clone(m.probs) }

// Contains reports whether label is a member of the set.
func (m *MultiCategorical) Contains(label string) bool {
	_, ok := slices.BinarySearch(m.labels, label)
	return ok
}

func (m *MultiCategorical) Equal(other Value) bool {
	o, ok := other.(*MultiCategorical)
	return ok && slices.Equal(o.labels, m.labels) && slices.Equal(o.probs, m.probs)
}

func (m *MultiCategorical) String() string {
	return "{" + strings.Join(m.labels, ",") + "}"
}

func formatProbs(p []float64) string {
	parts := make([]string, len(p))
	for i, f := range p {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
