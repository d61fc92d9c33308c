package tooldir

import (
	"github.com/bobmcallan/tool-directory/internal/spec"
)

// Classify maps each parameter name to its declared location. The declared
// "in" is used verbatim; a parameter without one, or with a location other
// than path, query or header, is rejected. A repeated name keeps its last
// location, so every name lands in exactly one bucket.
func Classify(params []*spec.Parameter) (map[string]string, error) {
	source := make(map[string]string, len(params))
	for _, p := range params {
		switch p.In {
		case spec.InPath, spec.InQuery, spec.InHeader:
			source[p.Name] = p.In
		default:
			return nil, &InvalidParameterError{Name: p.Name, In: p.In}
		}
	}
	return source, nil
}
