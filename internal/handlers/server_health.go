package handlers

import (
	"net/http"

	"github.com/bobmcallan/tool-directory/internal/common"
)

// RegistryHealthHandler reports whether the integration descriptor is still
// reachable in the registry.
type RegistryHealthHandler struct {
	logger         *common.Logger
	integrationURL string
	client         *http.Client
}

// NewRegistryHealthHandler creates a registry health handler that probes
// with client, the same client the loader fetched the integration with.
func NewRegistryHealthHandler(logger *common.Logger, integrationURL string, client *http.Client) *RegistryHealthHandler {
	if client == nil {
		client = http.DefaultClient
	}
	return &RegistryHealthHandler{logger: logger, integrationURL: integrationURL, client: client}
}

// ServeHTTP handles GET /api/registry-health.
func (h *RegistryHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), "GET", h.integrationURL, nil)
	if err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn().Str("url", h.integrationURL).Err(err).Msg("registry unreachable")
		}
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
}
