package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/relgraph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("relgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
relgraph - typed feature graphs with pluggable neighbor and derived components.

Usage:
  relgraph [options] MODEL_PATH...

Arguments:
  MODEL_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	modelFlag := flagSet.String("model", "", "Path to the model file or directory.")
	mFlag := flagSet.String("m", "", "Path to the model file or directory (shorthand).")
	queryFlag := flagSet.String("query", "", "Comma-separated names of the model queries to run. Empty runs all.")
	neighborFlag := flagSet.String("neighbor", "", "Neighbor component for an ad-hoc query.")
	itemFlag := flagSet.String("item", "", "Item of the ad-hoc query, as schema.object.")
	paramsFlag := flagSet.String("params", "", "YAML file with the ad-hoc query parameters.")
	valuesFlag := flagSet.Bool("values", false, "Print every feature value of the graph.")
	metricsFlag := flagSet.Bool("metrics", false, "Print memo table metrics after the run.")
	serveFlag := flagSet.String("serve", "", "Address for the health and metrics server, e.g. ':9090'. Empty is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	if *modelFlag != "" {
		paths = append(paths, *modelFlag)
	} else if *mFlag != "" {
		paths = append(paths, *mFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Model paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No model path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	var queries []string
	for _, q := range strings.Split(*queryFlag, ",") {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}

	config, err := app.NewConfig(app.Config{
		ModelPaths:  paths,
		Queries:     queries,
		Neighbor:    *neighborFlag,
		Item:        *itemFlag,
		ParamsPath:  *paramsFlag,
		ShowValues:  *valuesFlag,
		ShowMetrics: *metricsFlag,
		ServeAddr:   *serveFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
