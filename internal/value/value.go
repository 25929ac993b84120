package value

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/specialistvlad/relgraph/internal/ident"
	"github.com/specialistvlad/relgraph/internal/modelerr"
)

// Kind tags the variant of a Value.
type Kind int

const (
	KindUnknown Kind = iota
	KindCategorical
	KindMultiCategorical
	KindNumeric
	KindString
	KindMultiID
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindCategorical:
		return "categorical"
	case KindMultiCategorical:
		return "multi-categorical"
	case KindNumeric:
		return "numeric"
	case KindString:
		return "string"
	case KindMultiID:
		return "multi-id-reference"
	case KindComposite:
		return "composite"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an immutable feature value.
type Value interface {
	Kind() Kind
	Equal(other Value) bool
	String() string
}

type unknown struct{}

func (unknown) Kind() Kind             { return KindUnknown }
func (unknown) Equal(other Value) bool { return IsUnknown(other) }
func (unknown) String() string         { return "?" }

// Unknown is the value of a feature that has not been set.
var Unknown Value = unknown{}

// IsUnknown reports whether v is Unknown. A nil Value counts as unknown.
func IsUnknown(v Value) bool {
	return v == nil || v.Kind() == KindUnknown
}

// Numeric is a float64 that is never NaN.
type Numeric struct {
	f float64
}

// NewNumeric rejects NaN.
func NewNumeric(f float64) (Numeric, error) {
	if math.IsNaN(f) {
		return Numeric{}, fmt.Errorf("%w: numeric value cannot be NaN", modelerr.ErrInvalidValue)
	}
	return Numeric{f: f}, nil
}

// MustNumeric is NewNumeric for literals; it panics on NaN.
func MustNumeric(f float64) Numeric {
	n, err := NewNumeric(f)
	if err != nil {
		panic(err)
	}
	return n
}

func (n Numeric) Float() float64 { return n.f }
func (n Numeric) Kind() Kind     { return KindNumeric }
func (n Numeric) String() string { return strconv.FormatFloat(n.f, 'g', -1, 64) }

func (n Numeric) Equal(other Value) bool {
	o, ok := other.(Numeric)
	return ok && o.f == n.f
}

// String is a text value.
type String struct {
	s string
}

func NewString(s string) String { return String{s: s} }

func (s String) Text() string   { return s.s }
func (s String) Kind() Kind     { return KindString }
func (s String) String() string { return s.s }

func (s String) Equal(other Value) bool {
	o, ok := other.(String)
	return ok && o.s == s.s
}

// MultiID is a set of item identifiers, kept sorted and free of duplicates.
type MultiID struct {
	ids []ident.ItemID
}

// NewMultiID builds the set; identifiers equal under ItemID.Equal collapse.
func NewMultiID(ids ...ident.ItemID) MultiID {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, ident.ItemID.Compare)
	sorted = slices.CompactFunc(sorted, ident.ItemID.Equal)
	return MultiID{ids: sorted}
}

func (m MultiID) IDs() []ident.ItemID { return slices.Clone(m.ids) }
func (m MultiID) Len() int            { return len(m.ids) }
func (m MultiID) Kind() Kind          { return KindMultiID }

func (m MultiID) Equal(other Value) bool {
	o, ok := other.(MultiID)
	return ok && slices.EqualFunc(m.ids, o.ids, ident.ItemID.Equal)
}

func (m MultiID) String() string {
	parts := make([]string, len(m.ids))
	for i, id := range m.ids {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Entry is one labelled member of a Composite.
type Entry struct {
	Label string
	Value Value
}

// Composite is an ordered list of labelled values.
type Composite struct {
	entries []Entry
}

// NewComposite keeps the entries in the given order. Nil member values are
// stored as Unknown.
func NewComposite(entries ...Entry) Composite {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		if e.Value == nil {
			e.Value = Unknown
		}
		out[i] = e
	}
	return Composite{entries: out}
}

func (c Composite) Entries() []Entry { return slices.Clone(c.entries) }
func (c Composite) Len() int         { return len(c.entries) }
func (c Composite) Kind() Kind       { return KindComposite }

// Get returns the first value stored under label.
func (c Composite) Get(label string) (Value, bool) {
	for _, e := range c.entries {
		if e.Label == label {
			return e.Value, true
		}
	}
	return Unknown, false
}

func (c Composite) Equal(other Value) bool {
	o, ok := other.(Composite)
	if !ok || len(o.entries) != len(c.entries) {
		return false
	}
	for i, e := range c.entries {
		if e.Label != o.entries[i].Label || !e.Value.Equal(o.entries[i].Value) {
			return false
		}
	}
	return true
}

func (c Composite) String() string {
	parts := make([]string, len(c.entries))
	for i, e := range c.entries {
		parts[i] = e.Label + "=" + e.Value.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}
