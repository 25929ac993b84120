package hclconfig

import "github.com/hashicorp/hcl/v2"

// Model is the decoded content of one or more model files.
type Model struct {
	Graph   *GraphBlock
	Schemas []*SchemaBlock
	Nodes   []*NodeBlock
	Edges   []*EdgeBlock
	Queries []*QueryBlock
}

// fileRoot decodes every top-level block a model file may hold.
type fileRoot struct {
	Graphs  []*GraphBlock  `hcl:"graph,block"`
	Schemas []*SchemaBlock `hcl:"schema,block"`
	Nodes   []*NodeBlock   `hcl:"node,block"`
	Edges   []*EdgeBlock   `hcl:"edge,block"`
	Queries []*QueryBlock  `hcl:"query,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

// GraphBlock declares the graph, its own features and their values.
type GraphBlock struct {
	Schema   string          `hcl:"schema,label"`
	Object   string          `hcl:"object,label"`
	Features []*FeatureBlock `hcl:"feature,block"`
	Values   hcl.Expression  `hcl:"values,optional"`
}

// SchemaBlock declares an item schema.
type SchemaBlock struct {
	Name     string          `hcl:"name,label"`
	Kind     string          `hcl:"kind"`
	Features []*FeatureBlock `hcl:"feature,block"`
}

// FeatureBlock declares a feature. Setting rule makes it derived.
type FeatureBlock struct {
	Name       string         `hcl:"name,label"`
	Type       string         `hcl:"type"`
	Categories []string       `hcl:"categories,optional"`
	Closed     bool           `hcl:"closed,optional"`
	Default    hcl.Expression `hcl:"default,optional"`
	Rule       string         `hcl:"rule,optional"`
	Cache      bool           `hcl:"cache,optional"`
	Params     hcl.Expression `hcl:"params,optional"`
	DeclRange  hcl.Range      `hcl:",def_range"`
}

// NodeBlock creates a node.
type NodeBlock struct {
	Schema string         `hcl:"schema,label"`
	Object string         `hcl:"object,label"`
	Values hcl.Expression `hcl:"values,optional"`
}

// EdgeBlock creates an edge between two nodes named `schema.object`.
type EdgeBlock struct {
	Schema string         `hcl:"schema,label"`
	Object string         `hcl:"object,label"`
	Source string         `hcl:"source"`
	Target string         `hcl:"target"`
	Values hcl.Expression `hcl:"values,optional"`
}

// QueryBlock runs a neighbor component against one item.
type QueryBlock struct {
	Component string         `hcl:"component,label"`
	Name      string         `hcl:"name,label"`
	Item      string         `hcl:"item"`
	Omit      []string       `hcl:"omit,optional"`
	Params    hcl.Expression `hcl:"params,optional"`
}
