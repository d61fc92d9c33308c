package tooldir

import "fmt"

// maxErrorBody caps how much of a failed response body an error message carries.
const maxErrorBody = 512

// NotFoundError is returned by Load when the registry has no integration
// with the requested name.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("specified tool (%s) was not found in tool directory", e.URL)
}

// TransportError reports a non-2xx response from the registry or from the
// API behind a tool.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: server returned %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: server returned %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func newTransportError(method, url string, statusCode int, body []byte) *TransportError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &TransportError{Method: method, URL: url, StatusCode: statusCode, Body: string(body)}
}

// ValidationError reports tool arguments that do not satisfy the schema.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("argument %q %s", e.Field, e.Reason)
}

// MissingPathParameterError reports a {name} placeholder with no value.
type MissingPathParameterError struct {
	Path string
	Name string
}

func (e *MissingPathParameterError) Error() string {
	return fmt.Sprintf("path %s: no value for parameter %q", e.Path, e.Name)
}

// InvalidParameterError reports a parameter whose "in" is missing or not one
// of path, query or header.
type InvalidParameterError struct {
	Method string
	Path   string
	Name   string
	In     string
}

func (e *InvalidParameterError) Error() string {
	if e.In == "" {
		return fmt.Sprintf("%s %s: parameter %q has no location", e.Method, e.Path, e.Name)
	}
	return fmt.Sprintf("%s %s: parameter %q has unsupported location %q", e.Method, e.Path, e.Name, e.In)
}
