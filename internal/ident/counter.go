// internal/ident/counter.go
package ident

import (
	"fmt"
	"sync/atomic"
)

// Counter is the monotonically increasing source of anonymous identifier
// suffixes. A single DefaultCounter serves the process; tests and embedders
// that need reproducible identifiers create their own and call Reset between
// runs.
type Counter struct {
	next atomic.Uint64
}

// DefaultCounter is the process-wide counter used when no other is injected.
var DefaultCounter = &Counter{}

// Next returns the next value, starting at 1.
func (c *Counter) Next() uint64 {
	return c.next.Add(1)
}

// Reset rewinds the counter so the next value is 1 again.
func (c *Counter) Reset() {
	c.next.Store(0)
}

// GenerateUnique draws candidates `<disambiguator><n>` from the counter until
// exists reports the candidate's object name as free. An empty disambiguator
// falls back to the schema name.
func GenerateUnique(c *Counter, schema, disambiguator string, exists func(object string) bool) (Key, error) {
	if err := ValidateSchemaName(schema); err != nil {
		return Key{}, err
	}
	if disambiguator == "" {
		disambiguator = schema + "_"
	}
	if err := ValidateObjectName(disambiguator); err != nil {
		return Key{}, err
	}
	for {
		object := fmt.Sprintf("%s%d", disambiguator, c.Next())
		if !exists(object) {
			return Key{Schema: schema, Object: object}, nil
		}
	}
}
