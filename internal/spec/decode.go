package spec

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const componentParameterPrefix = "#/components/parameters/"

// ParseDocument decodes an OpenAPI document from YAML or JSON and resolves
// local parameter references.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	doc.resolveRefs()
	return &doc, nil
}

// ParseIntegration decodes an integration descriptor from YAML or JSON.
func ParseIntegration(data []byte) (*Integration, error) {
	var in Integration
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse integration descriptor: %w", err)
	}
	return &in, nil
}

// UnmarshalYAML keeps paths and their operations in document order.
func (p *Paths) UnmarshalYAML(node *yaml.Node) error {
	var items Paths
	err := eachPair(node, func(path string, value *yaml.Node) error {
		item := &PathItem{Path: path}
		err := eachPair(value, func(key string, v *yaml.Node) error {
			switch {
			case key == "parameters":
				if err := v.Decode(&item.Parameters); err != nil {
					return fmt.Errorf("parameters of %s: %w", path, err)
				}
			case IsOperationMethod(key):
				op := &Operation{}
				if err := v.Decode(op); err != nil {
					return fmt.Errorf("%s %s: %w", key, path, err)
				}
				op.Method = strings.ToLower(key)
				item.Operations = append(item.Operations, op)
			}
			return nil
		})
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return err
	}
	*p = items
	return nil
}

// UnmarshalYAML keeps overlay paths and methods in document order.
func (o *Overlay) UnmarshalYAML(node *yaml.Node) error {
	var paths Overlay
	err := eachPair(node, func(path string, value *yaml.Node) error {
		po := &PathOverride{Path: path}
		err := eachPair(value, func(method string, v *yaml.Node) error {
			op := &OperationOverride{}
			if err := v.Decode(op); err != nil {
				return fmt.Errorf("overlay %s %s: %w", method, path, err)
			}
			op.Method = strings.ToLower(method)
			po.Operations = append(po.Operations, op)
			return nil
		})
		if err != nil {
			return err
		}
		paths = append(paths, po)
		return nil
	})
	if err != nil {
		return err
	}
	*o = paths
	return nil
}

// eachPair calls fn for every key/value of a mapping node in order. A null
// node is treated as an empty mapping.
func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	node = resolveAlias(node)
	if node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, resolveAlias(node.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

// resolveRefs replaces "#/components/parameters/..." entries with copies of
// the referenced parameter. Anything else carrying a $ref is dropped and
// recorded in UnresolvedRefs.
func (d *Document) resolveRefs() {
	for _, item := range d.Paths {
		item.Parameters = d.resolveParameters(item.Parameters)
		for _, op := range item.Operations {
			op.Parameters = d.resolveParameters(op.Parameters)
		}
	}
}

func (d *Document) resolveParameters(params []*Parameter) []*Parameter {
	out := params[:0]
	for _, p := range params {
		if p == nil {
			continue
		}
		if p.Ref == "" {
			out = append(out, p)
			continue
		}
		target, ok := d.Components.Parameters[strings.TrimPrefix(p.Ref, componentParameterPrefix)]
		if !strings.HasPrefix(p.Ref, componentParameterPrefix) || !ok || target == nil || target.Ref != "" {
			d.UnresolvedRefs = append(d.UnresolvedRefs, p.Ref)
			continue
		}
		resolved := *target
		out = append(out, &resolved)
	}
	return out
}
