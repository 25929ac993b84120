package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MapSource is a Source backed by a Go map.
type MapSource map[string]string

func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func (m MapSource) Names() []string {
	return slices.Collect(maps.Keys(m))
}

// FromMap is shorthand for NewParams(MapSource(m)).
func FromMap(m map[string]string) Params {
	return NewParams(MapSource(maps.Clone(m)))
}

// FromYAML reads a YAML mapping into parameters. Nested mappings are
// flattened with dotted names so they can be scoped again with Params.Sub;
// sequences are joined with commas.
func FromYAML(data []byte) (Params, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Params{}, fmt.Errorf("failed to decode YAML parameters: %w", err)
	}
	flat := MapSource{}
	if err := flatten(flat, "", doc); err != nil {
		return Params{}, err
	}
	return NewParams(flat), nil
}

func flatten(dst MapSource, prefix string, node map[string]any) error {
	for key, raw := range node {
		name := prefix + key
		switch v := raw.(type) {
		case map[string]any:
			if err := flatten(dst, name+".", v); err != nil {
				return err
			}
		case []any:
			s := ""
			for i, item := range v {
				text, err := scalar(item)
				if err != nil {
					return fmt.Errorf("parameter '%s'[%d]: %w", name, i, err)
				}
				if i > 0 {
					s += ","
				}
				s += text
			}
			dst[name] = s
		default:
			text, err := scalar(v)
			if err != nil {
				return fmt.Errorf("parameter '%s': %w", name, err)
			}
			dst[name] = text
		}
	}
	return nil
}

func scalar(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case bool:
		if s {
			return "yes", nil
		}
		return "no", nil
	case int:
		return strconv.Itoa(s), nil
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported YAML value of type %T", v)
	}
}
