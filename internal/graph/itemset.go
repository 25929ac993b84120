package graph

import (
	"maps"
	"slices"

	"github.com/specialistvlad/relgraph/internal/ident"
)

// ItemSet is the result type of neighbor functions: a set of items, or a
// multiset when created with NewMultiset. A nil *ItemSet reads as empty.
type ItemSet struct {
	items  []Item
	counts map[Handle]int
	multi  bool
}

// NewItemSet builds a set holding items; duplicates collapse.
func NewItemSet(items ...Item) *ItemSet {
	s := &ItemSet{counts: make(map[Handle]int, len(items))}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// NewMultiset builds an empty multiset.
func NewMultiset() *ItemSet {
	return &ItemSet{counts: make(map[Handle]int), multi: true}
}

// IsMulti reports whether the set counts duplicates.
func (s *ItemSet) IsMulti() bool {
	return s != nil && s.multi
}

// Add inserts it. In a multiset every Add raises the count.
func (s *ItemSet) Add(it Item) {
	if s.counts == nil {
		s.counts = make(map[Handle]int)
	}
	c, ok := s.counts[it.Handle()]
	if !ok {
		s.items = append(s.items, it)
		s.counts[it.Handle()] = 1
		return
	}
	if s.multi {
		s.counts[it.Handle()] = c + 1
	}
}

// AddAll inserts every member of other, respecting its multiplicities.
func (s *ItemSet) AddAll(other *ItemSet) {
	if other == nil {
		return
	}
	for _, it := range other.items {
		for i := other.counts[it.Handle()]; i > 0; i-- {
			s.Add(it)
		}
	}
}

// Remove drops it entirely, whatever its count.
func (s *ItemSet) Remove(it Item) {
	if s == nil {
		return
	}
	if _, ok := s.counts[it.Handle()]; !ok {
		return
	}
	delete(s.counts, it.Handle())
	s.items = slices.DeleteFunc(s.items, func(x Item) bool { return x.Handle() == it.Handle() })
}

// Has reports membership.
func (s *ItemSet) Has(it Item) bool {
	if s == nil || it == nil {
		return false
	}
	_, ok := s.counts[it.Handle()]
	return ok
}

// Count returns the multiplicity of it (0 or 1 for plain sets).
func (s *ItemSet) Count(it Item) int {
	if s == nil {
		return 0
	}
	return s.counts[it.Handle()]
}

// Len returns the number of distinct members.
func (s *ItemSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Size returns the number of members counting multiplicity.
func (s *ItemSet) Size() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

// Items returns the distinct members ordered by identifier.
func (s *ItemSet) Items() []Item {
	if s == nil {
		return nil
	}
	out := slices.Clone(s.items)
	slices.SortFunc(out, func(a, b Item) int { return a.ID().Compare(b.ID()) })
	return out
}

// IDs returns the identifiers of the distinct members, sorted.
func (s *ItemSet) IDs() []ident.ItemID {
	items := s.Items()
	ids := make([]ident.ItemID, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}
	return ids
}

// Clone returns an independent copy.
func (s *ItemSet) Clone() *ItemSet {
	if s == nil {
		return NewItemSet()
	}
	return &ItemSet{items: slices.Clone(s.items), counts: maps.Clone(s.counts), multi: s.multi}
}

// Equal compares members and multiplicities.
func (s *ItemSet) Equal(other *ItemSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s == nil {
		return true
	}
	for _, it := range s.items {
		if s.counts[it.Handle()] != other.Count(it) {
			return false
		}
	}
	return true
}
