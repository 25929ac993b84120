package config

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/specialistvlad/relgraph/internal/modelerr"
)

var errMissing = errors.New("is required")

// Params reads typed parameters from a Source. The zero value reads from an
// empty source.
type Params struct {
	src Source
}

// NewParams wraps src. A nil src behaves as an empty source.
func NewParams(src Source) Params {
	return Params{src: src}
}

// Empty returns parameters with nothing set.
func Empty() Params {
	return Params{}
}

func (p Params) lookup(name string) (string, bool) {
	if p.src == nil {
		return "", false
	}
	return p.src.Lookup(name)
}

// Has reports whether name is present.
func (p Params) Has(name string) bool {
	_, ok := p.lookup(name)
	return ok
}

// Names lists the parameters present, sorted.
func (p Params) Names() []string {
	if p.src == nil {
		return nil
	}
	names := p.src.Names()
	slices.Sort(names)
	return names
}

// String returns a required text parameter.
func (p Params) String(name string) (string, error) {
	raw, ok := p.lookup(name)
	if !ok {
		return "", &modelerr.ConfigurationError{Name: name, Err: errMissing}
	}
	return raw, nil
}

// StringOr returns the parameter or def when absent.
func (p Params) StringOr(name, def string) string {
	if raw, ok := p.lookup(name); ok {
		return raw
	}
	return def
}

// Double returns a required float parameter.
func (p Params) Double(name string) (float64, error) {
	raw, err := p.String(name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &modelerr.ConfigurationError{Name: name, Err: err}
	}
	return f, nil
}

// DoubleOr returns def when the parameter is absent; a present but malformed
// value is still an error.
func (p Params) DoubleOr(name string, def float64) (float64, error) {
	if !p.Has(name) {
		return def, nil
	}
	return p.Double(name)
}

// Integer returns a required integer parameter.
func (p Params) Integer(name string) (int, error) {
	raw, err := p.String(name)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &modelerr.ConfigurationError{Name: name, Err: err}
	}
	return i, nil
}

// IntegerOr returns def when the parameter is absent.
func (p Params) IntegerOr(name string, def int) (int, error) {
	if !p.Has(name) {
		return def, nil
	}
	return p.Integer(name)
}

var yesNoValues = []string{"yes", "no", "true", "false"}

// YesNo returns a required boolean parameter spelled yes/no or true/false.
func (p Params) YesNo(name string) (bool, error) {
	raw, err := p.String(name)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true":
		return true, nil
	case "no", "false":
		return false, nil
	default:
		return false, &modelerr.ConfigurationError{Name: name, Allowed: yesNoValues, Err: errors.New("not a yes/no value")}
	}
}

// YesNoOr returns def when the parameter is absent.
func (p Params) YesNoOr(name string, def bool) (bool, error) {
	if !p.Has(name) {
		return def, nil
	}
	return p.YesNo(name)
}

// OneOf returns a required parameter that must match one of allowed
// (case-insensitively). The canonical spelling from allowed is returned.
func (p Params) OneOf(name string, allowed ...string) (string, error) {
	raw, ok := p.lookup(name)
	if !ok {
		return "", &modelerr.ConfigurationError{Name: name, Allowed: allowed, Err: errMissing}
	}
	raw = strings.TrimSpace(raw)
	for _, a := range allowed {
		if strings.EqualFold(raw, a) {
			return a, nil
		}
	}
	return "", &modelerr.ConfigurationError{Name: name, Allowed: allowed, Err: errors.New("unexpected value " + strconv.Quote(raw))}
}

// OneOfOr returns def when the parameter is absent.
func (p Params) OneOfOr(name, def string, allowed ...string) (string, error) {
	if !p.Has(name) {
		return def, nil
	}
	return p.OneOf(name, allowed...)
}

// Sub scopes the parameters under `prefix.`; Sub("neighbor") exposes
// "neighbor.depth" as "depth".
func (p Params) Sub(prefix string) Params {
	return Params{src: &prefixSource{parent: p, prefix: prefix + "."}}
}

// Fingerprint renders every parameter as sorted name=value lines. Two Params
// with the same fingerprint configure a component identically.
func (p Params) Fingerprint() string {
	var sb strings.Builder
	for _, name := range p.Names() {
		raw, _ := p.lookup(name)
		sb.WriteString(name)
		sb.WriteRune('=')
		sb.WriteString(strconv.Quote(raw))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Equal compares the fingerprints of two parameter sets.
func (p Params) Equal(other Params) bool {
	return p.Fingerprint() == other.Fingerprint()
}

type prefixSource struct {
	parent Params
	prefix string
}

func (s *prefixSource) Lookup(name string) (string, bool) {
	return s.parent.lookup(s.prefix + name)
}

func (s *prefixSource) Names() []string {
	var names []string
	for _, n := range s.parent.Names() {
		if rest, ok := strings.CutPrefix(n, s.prefix); ok && rest != "" {
			names = append(names, rest)
		}
	}
	return names
}
