package tooldir

import (
	"errors"
	"sort"

	"github.com/bobmcallan/tool-directory/internal/spec"
)

// Endpoint is the invocation metadata of one (path, method) pair.
type Endpoint struct {
	Method      string
	Path        string
	Description string
	ArgsSchema  *ArgsSchema
	// ArgsSource maps every argument name to path, query or header.
	ArgsSource map[string]string
}

// NewEndpoint derives the endpoint for op under item. Path-level parameters
// apply unless the operation redeclares the same (in, name). The description
// falls back to the summary.
func NewEndpoint(item *spec.PathItem, op *spec.Operation) (*Endpoint, error) {
	params := effectiveParameters(item.Parameters, op.Parameters)

	source, err := Classify(params)
	if err != nil {
		var ipe *InvalidParameterError
		if errors.As(err, &ipe) {
			ipe.Method, ipe.Path = op.Method, item.Path
		}
		return nil, err
	}

	description := op.Description
	if description == "" {
		description = op.Summary
	}

	return &Endpoint{
		Method:      op.Method,
		Path:        item.Path,
		Description: description,
		ArgsSchema:  BuildSchema(params),
		ArgsSource:  source,
	}, nil
}

// PathArgs returns the names located in the path, sorted.
func (e *Endpoint) PathArgs() []string { return e.argsIn(spec.InPath) }

// QueryArgs returns the names located in the query, sorted.
func (e *Endpoint) QueryArgs() []string { return e.argsIn(spec.InQuery) }

// HeaderArgs returns the names sent as headers, sorted.
func (e *Endpoint) HeaderArgs() []string { return e.argsIn(spec.InHeader) }

func (e *Endpoint) argsIn(location string) []string {
	var names []string
	for name, in := range e.ArgsSource {
		if in == location {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func effectiveParameters(pathLevel, opLevel []*spec.Parameter) []*spec.Parameter {
	if len(pathLevel) == 0 {
		return opLevel
	}
	declared := make(map[[2]string]bool, len(opLevel))
	for _, p := range opLevel {
		declared[[2]string{p.In, p.Name}] = true
	}
	params := make([]*spec.Parameter, 0, len(pathLevel)+len(opLevel))
	for _, p := range pathLevel {
		if !declared[[2]string{p.In, p.Name}] {
			params = append(params, p)
		}
	}
	return append(params, opLevel...)
}
