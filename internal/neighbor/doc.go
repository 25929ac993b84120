// Package neighbor computes relational context: the set of items related to
// a node or an edge through the graph structure.
//
// Every variant implements Neighbor. Results are *graph.ItemSet values owned
// by the caller. The queried item is never part of its own result unless the
// variant was configured with includeself. A restriction that is not
// configured does not restrict anything.
//
// Caching is opt-in and follows the same contract as derived features:
// results are memoized per item until the caller invalidates them.
// Omission-aware queries (GetOmitting, GetOmittingItem) traverse the graph as
// if the omitted items did not exist; their results are never cached.
package neighbor
