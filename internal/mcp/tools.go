package mcp

import (
	"github.com/bobmcallan/tool-directory/internal/common"
	"github.com/bobmcallan/tool-directory/internal/tooldir"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers one MCP tool per tool and returns the catalog.
// The version tool name is reserved.
func RegisterTools(s *server.MCPServer, tools []*tooldir.Tool, logger *common.Logger) []CatalogEntry {
	catalog := BuildCatalog(tools, versionToolName)
	for i, entry := range catalog {
		s.AddTool(BuildMCPTool(entry), GenericToolHandler(tools[i], logger))
	}
	return catalog
}
