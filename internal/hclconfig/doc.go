// Package hclconfig reads relgraph configuration written in HCL.
//
// Two things live here. Source adapts an HCL object value (a `params = {...}`
// attribute or a whole parameter file) to config.Source, flattening nested
// objects into dotted names. Load and Build turn model files into a populated
// graph: a single graph block, schema blocks with their features, node and
// edge blocks with feature values, and query blocks naming neighbor
// components to run against the result.
//
//	graph "social" "demo" {}
//
//	schema "person" {
//	  kind = "node"
//	  feature "age" { type = "numeric" }
//	  feature "deg" {
//	    type   = "numeric"
//	    rule   = "degree"
//	    cache  = true
//	    params = { direction = "out" }
//	  }
//	}
//
//	node "person" "alice" { values = { age = 31 } }
//	edge "knows" "ab" {
//	  source = "person.alice"
//	  target = "person.bob"
//	}
//
//	query "distancen" "reach" {
//	  item   = "person.alice"
//	  params = { depth = 2 }
//	}
package hclconfig
