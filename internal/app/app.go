package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/relgraph/internal/ctxlog"
	"github.com/specialistvlad/relgraph/internal/hclconfig"
	"github.com/specialistvlad/relgraph/internal/memo"
	"github.com/specialistvlad/relgraph/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	model    *hclconfig.Model

	prom    *prometheus.Registry
	metrics *memo.Metrics

	httpServer *http.Server
}

// NewApp loads the model files and checks every component they reference.
// Results go to outW and logs to logW. Without modules the built-in
// components are used.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var reg *registry.Registry
	if len(modules) == 0 {
		reg = registry.Default()
	} else {
		reg = registry.New(modules...)
	}
	logger.Debug("Components registered.", "neighbors", len(reg.NeighborNames()), "rules", len(reg.RuleNames()))

	model, err := hclconfig.Load(ctx, cfg.ModelPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	prom := prometheus.NewRegistry()
	metrics, err := memo.NewMetrics(prom)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		model:    model,
		prom:     prom,
		metrics:  metrics,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the loaded model.
func (a *App) Model() *hclconfig.Model {
	return a.model
}
