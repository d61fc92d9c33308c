package spec

import (
	"fmt"

	"github.com/bobmcallan/tool-directory/internal/common"
)

// OverrideMissError describes an overlay entry that matched nothing in the
// base document. The merger logs it and moves on.
type OverrideMissError struct {
	Path      string
	Method    string
	Parameter string
	Reason    string
}

func (e *OverrideMissError) Error() string {
	if e.Parameter != "" {
		return fmt.Sprintf("override %s %s parameter %s: %s", e.Method, e.Path, e.Parameter, e.Reason)
	}
	return fmt.Sprintf("override %s %s: %s", e.Method, e.Path, e.Reason)
}

// Merge applies the integration overlay to doc in place and returns doc.
//
// For every (path, method) present in both documents, a non-empty overlay
// description replaces the operation description and each described
// parameter override replaces the description of the parameter with the same
// (in, name). An override of a path-level parameter applies to that method
// only. Paths and operations are never added. Entries that match nothing are
// logged as warnings and skipped.
func Merge(doc *Document, integration *Integration, language string, logger *common.Logger) *Document {
	if integration == nil {
		return doc
	}
	for _, po := range integration.Paths {
		for _, oo := range po.Operations {
			for _, miss := range applyOverride(doc, po.Path, oo, language) {
				logger.Warn().
					Str("path", miss.Path).
					Str("method", miss.Method).
					Str("parameter", miss.Parameter).
					Err(miss).
					Msg("failed to override OpenAPI spec")
			}
		}
	}
	return doc
}

func applyOverride(doc *Document, path string, oo *OperationOverride, language string) []*OverrideMissError {
	item := doc.Paths.Get(path)
	if item == nil {
		return []*OverrideMissError{{Path: path, Method: oo.Method, Reason: "path not in base spec"}}
	}
	op := item.Operation(oo.Method)
	if op == nil {
		return []*OverrideMissError{{Path: path, Method: oo.Method, Reason: "method not in base spec"}}
	}

	if !oo.Description.IsZero() {
		op.Description = Translate(oo.Description, language)
	}

	var misses []*OverrideMissError
	for _, override := range oo.Parameters {
		if override.Description.IsZero() {
			continue
		}
		description := Translate(override.Description, language)
		if target := findParameter(op.Parameters, override.In, override.Name); target != nil {
			target.Description = description
			continue
		}
		// Path-level parameters are shared by every method under the path, so
		// the override goes to an operation-level copy that shadows it.
		if shared := findParameter(item.Parameters, override.In, override.Name); shared != nil {
			scoped := *shared
			scoped.Description = description
			op.Parameters = append(op.Parameters, &scoped)
			continue
		}
		misses = append(misses, &OverrideMissError{
			Path:      path,
			Method:    oo.Method,
			Parameter: override.In + ":" + override.Name,
			Reason:    "parameter not in base spec",
		})
	}
	return misses
}

func findParameter(params []*Parameter, in, name string) *Parameter {
	for _, p := range params {
		if p.In == in && p.Name == name {
			return p
		}
	}
	return nil
}
