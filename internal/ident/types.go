// internal/ident/types.go
package ident

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/relgraph/internal/modelerr"
)

// nullToken marks a missing owning graph in the canonical item form.
const nullToken = "null"

// ID identifies a graph.
type ID struct {
	Schema string
	Object string
}

// ItemID identifies a node or edge. The zero Graph means the item is not
// attached to any graph yet.
type ItemID struct {
	Graph  ID
	Schema string
	Object string
}

// Key is the part of an item identifier that is unique within one graph.
type Key struct {
	Schema string
	Object string
}

// NewID validates both components and builds a graph identifier. The
// `null` token is reserved for the owner of unattached items and is rejected
// in either component.
func NewID(schema, object string) (ID, error) {
	if err := ValidateSchemaName(schema); err != nil {
		return ID{}, err
	}
	if err := ValidateObjectName(object); err != nil {
		return ID{}, err
	}
	if schema == nullToken || object == nullToken {
		return ID{}, fmt.Errorf("%w: graph identifier cannot use the reserved token %q", modelerr.ErrInvalidName, nullToken)
	}
	return ID{Schema: schema, Object: object}, nil
}

// NewItemID validates the components and builds an item identifier owned by graph.
// Pass the zero ID to build an unattached identifier.
func NewItemID(graph ID, schema, object string) (ItemID, error) {
	if !graph.IsZero() {
		if _, err := NewID(graph.Schema, graph.Object); err != nil {
			return ItemID{}, err
		}
	}
	if err := ValidateSchemaName(schema); err != nil {
		return ItemID{}, err
	}
	if err := ValidateObjectName(object); err != nil {
		return ItemID{}, err
	}
	return ItemID{Graph: graph, Schema: schema, Object: object}, nil
}

// IsZero reports whether the identifier is the zero value.
func (id ID) IsZero() bool {
	return id == ID{}
}

// String serializes the graph identifier into `schema.object`.
func (id ID) String() string {
	return id.Schema + "." + id.Object
}

// Compare orders graph identifiers by schema, then object.
func (id ID) Compare(other ID) int {
	if c := strings.Compare(id.Schema, other.Schema); c != 0 {
		return c
	}
	return strings.Compare(id.Object, other.Object)
}

// Attached reports whether the item identifier names an owning graph.
func (id ItemID) Attached() bool {
	return !id.Graph.IsZero()
}

// Key drops the owning graph component.
func (id ItemID) Key() Key {
	return Key{Schema: id.Schema, Object: id.Object}
}

// Detach returns the identifier without its owning graph.
func (id ItemID) Detach() ItemID {
	return ItemID{Schema: id.Schema, Object: id.Object}
}

// String serializes the item identifier into its four-segment canonical form.
func (id ItemID) String() string {
	var sb strings.Builder
	if id.Attached() {
		sb.WriteString(id.Graph.Schema)
		sb.WriteRune('.')
		sb.WriteString(id.Graph.Object)
	} else {
		sb.WriteString(nullToken + "." + nullToken)
	}
	sb.WriteRune('.')
	sb.WriteString(id.Schema)
	sb.WriteRune('.')
	sb.WriteString(id.Object)
	return sb.String()
}

// Equal compares two item identifiers. The owning graph only takes part in
// the comparison when both sides are attached.
func (id ItemID) Equal(other ItemID) bool {
	if id.Schema != other.Schema || id.Object != other.Object {
		return false
	}
	if !id.Attached() || !other.Attached() {
		return true
	}
	return id.Graph == other.Graph
}

// Compare orders item identifiers by owning graph (when both are attached),
// then schema, then object.
func (id ItemID) Compare(other ItemID) int {
	if id.Attached() && other.Attached() {
		if c := id.Graph.Compare(other.Graph); c != 0 {
			return c
		}
	}
	if c := strings.Compare(id.Schema, other.Schema); c != 0 {
		return c
	}
	return strings.Compare(id.Object, other.Object)
}

// String renders a key as `schema.object`.
func (k Key) String() string {
	return k.Schema + "." + k.Object
}
