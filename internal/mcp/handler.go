package mcp

import (
	"net/http"

	"github.com/bobmcallan/tool-directory/internal/common"
	"github.com/bobmcallan/tool-directory/internal/tooldir"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Options configures a Handler.
type Options struct {
	ServerName  string
	Integration string
	Language    string
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	server     *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
	catalog    []CatalogEntry
}

// NewHandler registers tools on a new MCP server.
func NewHandler(opts Options, tools []*tooldir.Tool, logger *common.Logger) *Handler {
	if opts.ServerName == "" {
		opts.ServerName = "tool-directory"
	}
	mcpSrv := mcpserver.NewMCPServer(
		opts.ServerName,
		common.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	catalog := RegisterTools(mcpSrv, tools, logger)
	mcpSrv.AddTool(VersionTool(), VersionToolHandler(opts.Integration, opts.Language, len(catalog)))

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", len(catalog)).
		Str("integration", opts.Integration).
		Str("language", opts.Language).
		Msg("MCP handler initialized")

	return &Handler{
		server:     mcpSrv,
		streamable: streamable,
		logger:     logger,
		catalog:    catalog,
	}
}

// Catalog returns a copy of the registered tool catalog.
func (h *Handler) Catalog() []CatalogEntry {
	result := make([]CatalogEntry, len(h.catalog))
	copy(result, h.catalog)
	return result
}

// MCPServer returns the underlying server, for stdio transport.
func (h *Handler) MCPServer() *mcpserver.MCPServer {
	return h.server
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
