// Package registry maps component names to the factories that build them.
//
// Configuration names components by string: a DistanceN step, the stages of
// NeighborsOfNeighbors, the rule of a derived feature. The Registry resolves
// those names to neighbor.Factory and derived.Factory values registered at
// startup, so nothing is looked up by reflection at runtime. Built-in
// components are contributed by Modules; Default returns a registry with all
// of them.
package registry
