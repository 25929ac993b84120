// Package modelerr defines the error kinds shared by the graph data model.
//
// Every failure surfaced by the model is a value-level error that wraps one of
// the sentinels below, so callers can branch with errors.Is regardless of how
// much context was added on the way up.
package modelerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidName reports an identifier or feature name outside its allowed pattern.
	ErrInvalidName = errors.New("invalid name")

	// ErrAlreadyDefined reports an attempt to add a feature or schema that exists.
	ErrAlreadyDefined = errors.New("already defined")

	// ErrNotDefined reports a lookup, replace or remove of a missing feature or schema.
	ErrNotDefined = errors.New("not defined")

	// ErrNullDefinition reports a nil feature definition handed to a schema.
	ErrNullDefinition = errors.New("null feature definition")

	// ErrInvalidValue reports a value whose tag or categories do not match the
	// declaration of the feature it is stored into.
	ErrInvalidValue = errors.New("invalid value")

	// ErrFormat reports a malformed canonical identifier string.
	ErrFormat = errors.New("format error")

	// ErrConfiguration reports a missing or unparseable configuration parameter.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnresolvableComponent reports a component name unknown to the resolver.
	ErrUnresolvableComponent = errors.New("unresolvable component")

	// ErrUnresolvedReference reports an item identifier that neither the
	// registry nor the asking graph can resolve.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrKindMismatch reports an operation applied to the wrong kind of item or schema.
	ErrKindMismatch = errors.New("kind mismatch")

	// ErrForeignItem reports an item handed to a graph that does not own it.
	ErrForeignItem = errors.New("item belongs to another graph")
)

// FormatError describes why a canonical identifier string could not be parsed.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// ConfigurationError names the parameter that failed and, for enumerated
// parameters, the values that would have been accepted.
type ConfigurationError struct {
	Name    string
	Allowed []string
	Err     error
}

func (e *ConfigurationError) Error() string {
	var sb strings.Builder
	sb.WriteString("parameter '")
	sb.WriteString(e.Name)
	sb.WriteString("'")
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	if len(e.Allowed) > 0 {
		sb.WriteString(" (allowed: ")
		sb.WriteString(strings.Join(e.Allowed, ", "))
		sb.WriteString(")")
	}
	return sb.String()
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ConfigurationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Err}
}
