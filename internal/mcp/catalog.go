package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/bobmcallan/tool-directory/internal/common"
	"github.com/bobmcallan/tool-directory/internal/tooldir"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// maxToolNameLength is the longest tool name MCP clients accept.
const maxToolNameLength = 64

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// CatalogEntry describes one registered tool.
type CatalogEntry struct {
	Name        string         `json:"name"`
	MCPName     string         `json:"mcp_name"`
	Method      string         `json:"method"`
	Path        string         `json:"path"`
	Description string         `json:"description"`
	Params      []CatalogParam `json:"parameters"`
}

// CatalogParam describes one tool argument.
type CatalogParam struct {
	Name        string `json:"name"`
	In          string `json:"in"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// SanitizeName derives an MCP-safe tool name from a method and path
// template, e.g. get /pets/{petId} becomes get_pets_petId.
func SanitizeName(method, path string) string {
	name := unsafeNameChars.ReplaceAllString(strings.ToLower(method)+"_"+path, "_")
	name = strings.Trim(name, "_")
	if len(name) > maxToolNameLength {
		name = strings.TrimRight(name[:maxToolNameLength], "_")
	}
	return name
}

// BuildCatalog assigns each tool a unique MCP name, in tool order. Names in
// reserved are never handed out.
func BuildCatalog(tools []*tooldir.Tool, reserved ...string) []CatalogEntry {
	taken := make(map[string]bool, len(tools)+len(reserved))
	for _, name := range reserved {
		taken[name] = true
	}

	entries := make([]CatalogEntry, 0, len(tools))
	for _, t := range tools {
		base := SanitizeName(t.Endpoint.Method, t.Endpoint.Path)
		name := base
		for n := 2; taken[name]; n++ {
			suffix := fmt.Sprintf("_%d", n)
			trimmed := base
			if len(trimmed)+len(suffix) > maxToolNameLength {
				trimmed = trimmed[:maxToolNameLength-len(suffix)]
			}
			name = trimmed + suffix
		}
		taken[name] = true

		entry := CatalogEntry{
			Name:        t.Name,
			MCPName:     name,
			Method:      strings.ToUpper(t.Endpoint.Method),
			Path:        t.Endpoint.Path,
			Description: t.Description,
		}
		for _, f := range t.Endpoint.ArgsSchema.Fields() {
			entry.Params = append(entry.Params, CatalogParam{
				Name:        f.Name,
				In:          t.Endpoint.ArgsSource[f.Name],
				Required:    f.Required,
				Description: f.Description,
			})
		}
		entries = append(entries, entry)
	}
	return entries
}

// BuildMCPTool converts a catalog entry into an mcp.Tool. Every argument is
// a string property.
func BuildMCPTool(entry CatalogEntry) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(entry.Description)}
	for _, p := range entry.Params {
		var popts []mcp.PropertyOption
		if p.Description != "" {
			popts = append(popts, mcp.Description(p.Description))
		}
		if p.Required {
			popts = append(popts, mcp.Required())
		}
		opts = append(opts, mcp.WithString(p.Name, popts...))
	}
	return mcp.NewTool(entry.MCPName, opts...)
}

// GenericToolHandler routes an MCP tool call to t.Invoke. Structured
// results are returned as JSON text, text results as is. Failures are
// reported as error results, never as protocol errors.
func GenericToolHandler(t *tooldir.Tool, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := t.Invoke(ctx, r.GetArguments())
		if err != nil {
			logger.Warn().Str("tool", t.Name).Err(err).Msg("tool call failed")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		var text string
		switch v := result.(type) {
		case nil:
		case string:
			text = v
		default:
			out, err := json.Marshal(v)
			if err != nil {
				return errorResult("failed to marshal tool result"), nil
			}
			text = string(out)
		}
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(text)}}, nil
	}
}
