// Package spec models the two documents an integration is built from: the
// registry's integration descriptor and the OpenAPI document it points at.
//
// Both are decoded with gopkg.in/yaml.v3 (JSON input is accepted too). Path
// and method order is kept exactly as written, because tools are produced in
// document order.
package spec

import "strings"

// Parameter locations understood by the tool compiler.
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
)

// operationMethods are the path-item keys that declare an operation.
var operationMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"options": true, "head": true, "patch": true, "trace": true,
}

// IsOperationMethod reports whether key names an HTTP method in a path item.
func IsOperationMethod(key string) bool {
	return operationMethods[strings.ToLower(key)]
}

// Server is one entry of the document's servers list.
type Server struct {
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

// Parameter is an OpenAPI parameter object. Ref is set only for unresolved
// "$ref" entries.
type Parameter struct {
	Name        string `yaml:"name"`
	In          string `yaml:"in"`
	Required    bool   `yaml:"required"`
	Description string `yaml:"description"`
	Ref         string `yaml:"$ref"`
}

// Operation is a single (path, method) entry.
type Operation struct {
	Method      string       `yaml:"-"`
	OperationID string       `yaml:"operationId"`
	Summary     string       `yaml:"summary"`
	Description string       `yaml:"description"`
	Parameters  []*Parameter `yaml:"parameters"`
}

// PathItem holds the operations declared under one path, in document order.
type PathItem struct {
	Path       string
	Parameters []*Parameter
	Operations []*Operation
}

// Operation returns the operation for method, or nil.
func (p *PathItem) Operation(method string) *Operation {
	for _, op := range p.Operations {
		if strings.EqualFold(op.Method, method) {
			return op
		}
	}
	return nil
}

// Paths is the ordered paths object.
type Paths []*PathItem

// Get returns the path item for path, or nil.
func (p Paths) Get(path string) *PathItem {
	for _, item := range p {
		if item.Path == path {
			return item
		}
	}
	return nil
}

// Components carries the reusable objects that parameters may reference.
type Components struct {
	Parameters map[string]*Parameter `yaml:"parameters"`
}

// Document is the subset of an OpenAPI document the tool compiler reads.
type Document struct {
	OpenAPI    string     `yaml:"openapi"`
	Servers    []Server   `yaml:"servers"`
	Paths      Paths      `yaml:"paths"`
	Components Components `yaml:"components"`

	// UnresolvedRefs lists "$ref" parameters dropped during parsing.
	UnresolvedRefs []string `yaml:"-"`
}

// ServerURL returns the first server URL without a trailing slash, or "".
func (d *Document) ServerURL() string {
	if len(d.Servers) == 0 {
		return ""
	}
	return strings.TrimSuffix(d.Servers[0].URL, "/")
}

// OperationCount returns the number of (path, method) pairs.
func (d *Document) OperationCount() int {
	n := 0
	for _, item := range d.Paths {
		n += len(item.Operations)
	}
	return n
}

// ParameterOverride replaces the description of the parameter (In, Name).
type ParameterOverride struct {
	Name        string `yaml:"name"`
	In          string `yaml:"in"`
	Description Text   `yaml:"description"`
}

// OperationOverride localises one operation.
type OperationOverride struct {
	Method      string              `yaml:"-"`
	Description Text                `yaml:"description"`
	Parameters  []ParameterOverride `yaml:"parameters"`
}

// PathOverride groups operation overrides under one path.
type PathOverride struct {
	Path       string
	Operations []*OperationOverride
}

// Overlay is the ordered paths section of an integration descriptor.
type Overlay []*PathOverride

// Integration is the descriptor the registry serves for a named integration.
type Integration struct {
	Name        string  `yaml:"name"`
	Description Text    `yaml:"description"`
	OpenAPI     string  `yaml:"openApi"`
	Paths       Overlay `yaml:"paths"`
}
