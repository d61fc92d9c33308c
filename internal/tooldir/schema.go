package tooldir

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bobmcallan/tool-directory/internal/spec"
)

// Field is one tool argument. Every argument is a string.
type Field struct {
	Name        string
	Required    bool
	Description string
}

// ArgsSchema is the ordered field list a tool accepts.
type ArgsSchema struct {
	fields []Field
	index  map[string]int
}

// BuildSchema creates one field per parameter, named as declared. A field is
// required iff its parameter says required: true. A repeated name replaces the
// earlier field in place.
func BuildSchema(params []*spec.Parameter) *ArgsSchema {
	s := &ArgsSchema{index: make(map[string]int, len(params))}
	for _, p := range params {
		f := Field{Name: p.Name, Required: p.Required, Description: p.Description}
		if i, ok := s.index[p.Name]; ok {
			s.fields[i] = f
			continue
		}
		s.index[p.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

// Fields returns a copy of the fields in declaration order.
func (s *ArgsSchema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the field called name.
func (s *ArgsSchema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Required returns the names of required fields.
func (s *ArgsSchema) Required() []string {
	var names []string
	for _, f := range s.fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Optional returns the names of optional fields.
func (s *ArgsSchema) Optional() []string {
	var names []string
	for _, f := range s.fields {
		if !f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Validate checks args against the schema and returns the known arguments as
// strings. Names outside the schema are dropped. Numbers and booleans are
// stringified; objects and arrays are rejected. A nil value counts as absent.
func (s *ArgsSchema) Validate(args map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(s.fields))
	for _, f := range s.fields {
		v, ok := args[f.Name]
		if !ok || v == nil {
			if f.Required {
				return nil, &ValidationError{Field: f.Name, Reason: "is required"}
			}
			continue
		}
		str, ok := scalarString(v)
		if !ok {
			return nil, &ValidationError{Field: f.Name, Reason: fmt.Sprintf("must be a string, got %T", v)}
		}
		out[f.Name] = str
	}
	return out, nil
}

// JSONSchema renders the schema as a JSON Schema object.
func (s *ArgsSchema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		prop := map[string]any{"type": "string"}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		props[f.Name] = prop
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if required := s.Required(); len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), true
	case json.Number:
		return x.String(), true
	default:
		return "", false
	}
}
