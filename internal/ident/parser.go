// internal/ident/parser.go
package ident

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/specialistvlad/relgraph/internal/modelerr"
)

// schemaNameRegex restricts schema names to alphanumerics, underscore, dash and colon.
var schemaNameRegex = regexp.MustCompile(`^[A-Za-z0-9_:-]+$`)

// ValidateSchemaName checks a schema name against the allowed character set.
func ValidateSchemaName(name string) error {
	if !schemaNameRegex.MatchString(name) {
		return fmt.Errorf("%w: schema name %q", modelerr.ErrInvalidName, name)
	}
	return nil
}

// ValidateObjectName rejects empty object names and names containing a dot,
// a comma or whitespace.
func ValidateObjectName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: object name cannot be empty", modelerr.ErrInvalidName)
	}
	if strings.ContainsFunc(name, func(r rune) bool {
		return r == '.' || r == ',' || unicode.IsSpace(r)
	}) {
		return fmt.Errorf("%w: object name %q", modelerr.ErrInvalidName, name)
	}
	return nil
}

// ParseID creates a graph identifier from its canonical `schema.object` form.
func ParseID(raw string) (ID, error) {
	parts, err := split(raw, 2)
	if err != nil {
		return ID{}, err
	}
	id, err := NewID(parts[0], parts[1])
	if err != nil {
		return ID{}, &modelerr.FormatError{Input: raw, Reason: err.Error()}
	}
	return id, nil
}

// ParseItemID creates an item identifier from its canonical four-segment
// form. A `null.null` owner yields an unattached identifier.
func ParseItemID(raw string) (ItemID, error) {
	parts, err := split(raw, 4)
	if err != nil {
		return ItemID{}, err
	}

	var owner ID
	switch {
	case parts[0] == nullToken && parts[1] == nullToken:
		// unattached
	case parts[0] == nullToken || parts[1] == nullToken:
		return ItemID{}, &modelerr.FormatError{Input: raw, Reason: "owning graph must be fully null or fully set"}
	default:
		owner = ID{Schema: parts[0], Object: parts[1]}
	}

	id, err := NewItemID(owner, parts[2], parts[3])
	if err != nil {
		return ItemID{}, &modelerr.FormatError{Input: raw, Reason: err.Error()}
	}
	return id, nil
}

func split(raw string, want int) ([]string, error) {
	if raw == "" {
		return nil, &modelerr.FormatError{Input: raw, Reason: "identifier cannot be empty"}
	}
	parts := strings.Split(raw, ".")
	if len(parts) != want {
		return nil, &modelerr.FormatError{Input: raw, Reason: fmt.Sprintf("expected %d segments, got %d", want, len(parts))}
	}
	for _, p := range parts {
		if p == "" {
			return nil, &modelerr.FormatError{Input: raw, Reason: "identifier contains empty segment"}
		}
	}
	return parts, nil
}
