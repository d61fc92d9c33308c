package mcp

import (
	"context"
	"encoding/json"

	"github.com/bobmcallan/tool-directory/internal/common"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const versionToolName = "get_version"

// versionInfo is the get_version payload.
type versionInfo struct {
	Version     string `json:"version"`
	Build       string `json:"build"`
	Commit      string `json:"commit"`
	Integration string `json:"integration,omitempty"`
	Language    string `json:"language,omitempty"`
	Tools       int    `json:"tools"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool(versionToolName,
		mcp.WithDescription("Get tool directory server version and the loaded integration. Use this to verify connectivity."),
	)
}

// VersionToolHandler reports build info and what integration is served.
func VersionToolHandler(integration, language string, tools int) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(versionInfo{
			Version:     common.GetVersion(),
			Build:       common.GetBuild(),
			Commit:      common.GetGitCommit(),
			Integration: integration,
			Language:    language,
			Tools:       tools,
		})
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(out))},
		}, nil
	}
}
