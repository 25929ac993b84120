package registry

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/relgraph/internal/modelerr"
)

// Reference names a component used somewhere in a model.
type Reference struct {
	// Where locates the reference for error messages.
	Where string
	// Neighbor is true for neighbor components, false for rules.
	Neighbor bool
	Name     string
}

// Validate checks that every referenced component is registered, reporting
// all misses at once.
func (r *Registry) Validate(refs []Reference) error {
	var errs []string
	for _, ref := range refs {
		if ref.Neighbor && !r.HasNeighbor(ref.Name) {
			errs = append(errs, fmt.Sprintf("%s: unknown neighbor component '%s'", ref.Where, ref.Name))
		}
		if !ref.Neighbor && !r.HasRule(ref.Name) {
			errs = append(errs, fmt.Sprintf("%s: unknown rule '%s'", ref.Where, ref.Name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: registry validation failed:\n- %s", modelerr.ErrUnresolvableComponent, strings.Join(errs, "\n- "))
	}
	return nil
}
