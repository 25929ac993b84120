// Package graph is the typed store at the center of the data model.
//
// # Overview
//
// A Graph owns nodes and edges (directed or undirected). The graph itself and
// every item in it are Decorable: they carry feature values governed by a
// Schema. Each item schema has a Kind (node, directed edge, undirected edge)
// and an insertion-ordered list of features; the graph has its own schema of
// kind GraphKind.
//
// Features come in two flavors:
//   - ExplicitFeature stores caller-assigned values in a sparse table keyed by
//     the item's Handle. A closed feature has a default every item implicitly
//     holds; an open feature reports value.Unknown when unset.
//   - DerivedFeature computes its value on demand from the item's structural
//     context through a Rule, optionally memoizing the result per item. Memo
//     entries are never invalidated automatically; callers invalidate them
//     when the structure a rule reads changes.
//
// # Schema Evolution
//
// Callers only ever see copies of a schema. Edits are committed with
// Graph.UpdateSchema, which keeps the stored values (and memo tables) of
// features whose declaration is unchanged and purges everything else.
//
// # Identity
//
// Every graph registers itself in a Registry at creation so that a
// value.MultiID naming items of another graph can be resolved. The registry
// only holds weak references; a graph that is closed or garbage collected
// disappears from it together with all of its items.
//
// # Thread-Safety
//
// The model is designed for a single writer. Only the Registry and the memo
// tables are safe for concurrent use.
package graph
