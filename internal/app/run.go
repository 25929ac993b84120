package app

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/specialistvlad/relgraph/internal/config"
	"github.com/specialistvlad/relgraph/internal/ctxlog"
	"github.com/specialistvlad/relgraph/internal/graph"
	"github.com/specialistvlad/relgraph/internal/hclconfig"
)

// Run builds the graph and writes the requested report. With a serve
// address it keeps the health and metrics endpoints up until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.ServeAddr != "" {
		if err := a.startServer(ctx, a.config.ServeAddr); err != nil {
			return err
		}
		defer a.stopServer(ctx)
	}

	g, err := hclconfig.Build(ctx, a.model, a.registry,
		graph.WithRegistry(graph.NewRegistry()),
		graph.WithLogger(a.logger),
		graph.WithMetrics(a.metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}
	defer g.Close()

	queries, err := a.selectQueries()
	if err != nil {
		return err
	}
	for _, q := range queries {
		res, err := hclconfig.RunQuery(g, a.registry, q)
		if err != nil {
			return err
		}
		a.writeResult(res)
	}

	if a.config.Neighbor != "" {
		res, err := a.runAdHoc(g)
		if err != nil {
			return fmt.Errorf("neighbor query: %w", err)
		}
		a.writeResult(res)
	}

	if a.config.ShowValues {
		if err := a.writeValues(g); err != nil {
			return err
		}
	}
	if a.config.ShowMetrics {
		if err := a.writeMetrics(); err != nil {
			return err
		}
	}

	if a.config.ServeAddr != "" {
		a.logger.Info("Serving until interrupted.", "address", a.config.ServeAddr)
		<-ctx.Done()
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) selectQueries() ([]*hclconfig.QueryBlock, error) {
	if len(a.config.Queries) == 0 {
		return a.model.Queries, nil
	}
	var out []*hclconfig.QueryBlock
	for _, name := range a.config.Queries {
		i := slices.IndexFunc(a.model.Queries, func(q *hclconfig.QueryBlock) bool { return q.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("query '%s' is not defined in the model", name)
		}
		out = append(out, a.model.Queries[i])
	}
	return out, nil
}

func (a *App) runAdHoc(g *graph.Graph) (*hclconfig.QueryResult, error) {
	params := config.Empty()
	if a.config.ParamsPath != "" {
		data, err := os.ReadFile(a.config.ParamsPath)
		if err != nil {
			return nil, err
		}
		if params, err = config.FromYAML(data); err != nil {
			return nil, fmt.Errorf("params file %s: %w", a.config.ParamsPath, err)
		}
		a.logger.Debug("Loaded neighbor parameters.", "path", a.config.ParamsPath, "names", params.Names())
	}
	return hclconfig.RunNeighbor(g, a.registry, a.config.Neighbor, params, a.config.Item)
}
