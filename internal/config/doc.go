// Package config defines the boundary between the graph model and whatever
// supplies component parameters.
//
// Components never parse configuration syntax. They receive a Params value
// and ask it for typed parameters by name; the Source underneath decides
// where the raw text comes from (a Go map, a YAML document, an HCL block).
// Concrete HCL support lives in the hclconfig package.
package config
