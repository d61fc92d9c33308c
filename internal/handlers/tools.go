package handlers

import (
	"net/http"

	"github.com/bobmcallan/tool-directory/internal/common"
	"github.com/bobmcallan/tool-directory/internal/mcp"
)

// CatalogProvider lists the registered tools.
type CatalogProvider interface {
	Catalog() []mcp.CatalogEntry
}

// ToolsHandler lists the tools compiled from the loaded integration.
type ToolsHandler struct {
	logger      *common.Logger
	catalog     CatalogProvider
	integration string
	language    string
}

// NewToolsHandler creates a new tools handler.
func NewToolsHandler(logger *common.Logger, catalog CatalogProvider, integration, language string) *ToolsHandler {
	return &ToolsHandler{logger: logger, catalog: catalog, integration: integration, language: language}
}

type toolsResponse struct {
	Integration string             `json:"integration"`
	Language    string             `json:"language"`
	Count       int                `json:"count"`
	Tools       []mcp.CatalogEntry `json:"tools"`
}

// ServeHTTP handles GET /api/tools.
func (h *ToolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	tools := h.catalog.Catalog()
	if tools == nil {
		tools = []mcp.CatalogEntry{}
	}
	WriteJSON(w, http.StatusOK, toolsResponse{
		Integration: h.integration,
		Language:    h.language,
		Count:       len(tools),
		Tools:       tools,
	})
}
