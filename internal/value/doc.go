// Package value defines the immutable feature values carried by graphs,
// nodes and edges, plus the distinguished Unknown sentinel.
//
// Values never change after construction. Constructors copy their slice
// arguments and accessors hand out copies, so a value can be shared freely
// between items and memo tables.
package value
