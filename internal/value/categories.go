package value

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/specialistvlad/relgraph/internal/modelerr"
)

// Categories is the ordered category list of a categorical feature. It also
// interns the one-hot values of its labels so that every item holding "red"
// with full mass shares one *Categorical.
type Categories struct {
	labels []string
	index  map[string]int

	once   sync.Once
	oneHot []*Categorical
}

// NewCategories rejects empty lists, empty labels and duplicates.
func NewCategories(labels ...string) (*Categories, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: category list cannot be empty", modelerr.ErrInvalidValue)
	}
	c := &Categories{labels: slices.Clone(labels), index: make(map[string]int, len(labels))}
	for i, l := range labels {
		if l == "" {
			return nil, fmt.Errorf("%w: category label cannot be empty", modelerr.ErrInvalidValue)
		}
		if _, dup := c.index[l]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", modelerr.ErrInvalidValue, l)
		}
		c.index[l] = i
	}
	return c, nil
}

// MustCategories panics where NewCategories would fail.
func MustCategories(labels ...string) *Categories {
	c, err := NewCategories(labels...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Categories) Labels() []string { return slices.Clone(c.labels) }
func (c *Categories) Len() int         { return len(c.labels) }

// Index returns the position of label in the list.
func (c *Categories) Index(label string) (int, bool) {
	i, ok := c.index[label]
	return i, ok
}

// Equal compares the ordered label lists. A nil list only equals nil.
func (c *Categories) Equal(other *Categories) bool {
	if c == nil || other == nil {
		return c == other
	}
	return slices.Equal(c.labels, other.labels)
}

// OneHot returns the shared one-hot value for label.
func (c *Categories) OneHot(label string) (*Categorical, error) {
	i, ok := c.index[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not one of %v", modelerr.ErrInvalidValue, label, c.labels)
	}
	c.once.Do(func() {
		c.oneHot = make([]*Categorical, len(c.labels))
		for j, l := range c.labels {
			probs := make([]float64, len(c.labels))
			probs[j] = 1
			c.oneHot[j] = &Categorical{label: l, probs: probs}
		}
	})
	return c.oneHot[i], nil
}

// Categorical validates v against the list and returns its normalized form:
// a missing vector becomes the interned one-hot value, and an explicit
// one-hot vector is replaced by the interned value too.
func (c *Categories) Categorical(v *Categorical) (*Categorical, error) {
	shared, err := c.OneHot(v.label)
	if err != nil {
		return nil, err
	}
	if !v.HasProbabilities() {
		return shared, nil
	}
	if err := c.checkProbs(v.probs); err != nil {
		return nil, err
	}
	if slices.Equal(v.probs, shared.probs) {
		return shared, nil
	}
	return v, nil
}

// MultiCategorical validates every label and fills a missing vector with
// full mass on each member.
func (c *Categories) MultiCategorical(v *MultiCategorical) (*MultiCategorical, error) {
	for _, l := range v.labels {
		if _, ok := c.index[l]; !ok {
			return nil, fmt.Errorf("%w: %q is not one of %v", modelerr.ErrInvalidValue, l, c.labels)
		}
	}
	if v.HasProbabilities() {
		if err := c.checkProbs(v.probs); err != nil {
			return nil, err
		}
		return v, nil
	}
	probs := make([]float64, len(c.labels))
	for _, l := range v.labels {
		probs[c.index[l]] = 1
	}
	return &MultiCategorical{labels: v.labels, probs: probs}, nil
}

func (c *Categories) checkProbs(p []float64) error {
	if len(p) != len(c.labels) {
		return fmt.Errorf("%w: probability vector %s has %d entries, want %d", modelerr.ErrInvalidValue, formatProbs(p), len(p), len(c.labels))
	}
	for _, f := range p {
		if math.IsNaN(f) || f < 0 {
			return fmt.Errorf("%w: probability vector %s has an invalid entry", modelerr.ErrInvalidValue, formatProbs(p))
		}
	}
	return nil
}
