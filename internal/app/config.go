package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModelPaths []string // hcl files or directories

	// Queries restricts the model's query blocks to the named ones. Empty
	// runs them all.
	Queries []string

	// An ad-hoc neighbor query run in addition to the model's queries.
	Neighbor   string
	Item       string
	ParamsPath string // yaml file with the neighbor parameters

	ShowValues  bool
	ShowMetrics bool
	ServeAddr   string

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ModelPaths) == 0 {
		return nil, errors.New("at least one model path is required")
	}
	if (cfg.Neighbor == "") != (cfg.Item == "") {
		return nil, errors.New("neighbor and item must be given together")
	}
	if cfg.ParamsPath != "" && cfg.Neighbor == "" {
		return nil, errors.New("params file needs a neighbor query")
	}
	return &cfg, nil
}
