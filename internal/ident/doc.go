// internal/ident/doc.go

/*
Package ident provides the structured, parseable identifiers of graphs and
graph items.

A graph is identified by a (schema, object) pair whose canonical form is
`schema.object`. A graph item (node or edge) is identified by its own
(schema, object) pair plus the identifier of the graph that owns it, with the
canonical form `graph_schema.graph_object.item_schema.item_object`. An item
that is not attached to any graph renders its owner as `null.null`.

Identifiers are plain comparable values, created once and never mutated. The
package also owns the process-wide Counter used to mint anonymous
identifiers.
*/
package ident
