package graph

import (
	"fmt"

	"github.com/specialistvlad/relgraph/internal/value"
)

// Kind is the kind of decorable a schema governs.
type Kind int

const (
	GraphKind Kind = iota
	NodeKind
	DirectedEdgeKind
	UndirectedEdgeKind
)

func (k Kind) String() string {
	switch k {
	case GraphKind:
		return "graph"
	case NodeKind:
		return "node"
	case DirectedEdgeKind:
		return "directed_edge"
	case UndirectedEdgeKind:
		return "undirected_edge"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsEdge reports whether k is one of the edge kinds.
func (k Kind) IsEdge() bool {
	return k == DirectedEdgeKind || k == UndirectedEdgeKind
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{GraphKind, NodeKind, DirectedEdgeKind, UndirectedEdgeKind} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown schema kind %q", s)
}

// ValueType is the declared type of a feature.
type ValueType int

const (
	NumericType ValueType = iota
	StringType
	CategoricalType
	MultiCategoricalType
	MultiIDType
	CompositeType
)

func (t ValueType) String() string {
	return t.valueKind().String()
}

// ParseValueType accepts the names produced by ValueType.String.
func ParseValueType(s string) (ValueType, error) {
	for t := NumericType; t <= CompositeType; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown value type %q", s)
}

func (t ValueType) valueKind() value.Kind {
	switch t {
	case NumericType:
		return value.KindNumeric
	case StringType:
		return value.KindString
	case CategoricalType:
		return value.KindCategorical
	case MultiCategoricalType:
		return value.KindMultiCategorical
	case MultiIDType:
		return value.KindMultiID
	case CompositeType:
		return value.KindComposite
	default:
		return value.KindUnknown
	}
}

func (t ValueType) categorical() bool {
	return t == CategoricalType || t == MultiCategoricalType
}
