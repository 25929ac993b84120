// Package app wires the model loader, the component registry and the graph
// together. It loads a model, builds the graph, runs the queries the model
// and the caller ask for and writes a report, decoupled from any specific
// entrypoint like a CLI.
package app
