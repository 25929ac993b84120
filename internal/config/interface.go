package config

// Source is a flat, read-only set of raw parameters.
type Source interface {
	// Lookup returns the raw text of a parameter and whether it is present.
	Lookup(name string) (string, bool)

	// Names lists every parameter present in the source.
	Names() []string
}
