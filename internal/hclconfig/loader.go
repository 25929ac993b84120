package hclconfig

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/relgraph/internal/ctxlog"
	"github.com/specialistvlad/relgraph/internal/fsutil"
)

// Load parses every .hcl file found under paths and merges their blocks.
// Exactly one graph block must exist across all files.
func Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.Collect(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &Model{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := decodeInto(model, hclFile.Body, file); err != nil {
			return nil, err
		}
		logger.Debug("Decoded model file.", "file", file)
	}
	if model.Graph == nil {
		return nil, fmt.Errorf("no graph block found in %v", paths)
	}

	logger.Debug("HCL loading complete.", "schemas", len(model.Schemas), "nodes", len(model.Nodes), "edges", len(model.Edges), "queries", len(model.Queries))
	return model, nil
}

// Parse decodes a single model file held in memory.
func Parse(src []byte, filename string) (*Model, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	model := &Model{}
	if err := decodeInto(model, hclFile.Body, filename); err != nil {
		return nil, err
	}
	if model.Graph == nil {
		return nil, fmt.Errorf("no graph block found in %s", filename)
	}
	return model, nil
}

func decodeInto(model *Model, body hcl.Body, file string) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}
	for _, g := range root.Graphs {
		if model.Graph != nil {
			return fmt.Errorf("%s: second graph block '%s.%s', only one graph is allowed", file, g.Schema, g.Object)
		}
		model.Graph = g
	}
	model.Schemas = append(model.Schemas, root.Schemas...)
	model.Nodes = append(model.Nodes, root.Nodes...)
	model.Edges = append(model.Edges, root.Edges...)
	model.Queries = append(model.Queries, root.Queries...)
	return nil
}
