package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bobmcallan/tool-directory/internal/common"
	"github.com/bobmcallan/tool-directory/internal/config"
	"github.com/bobmcallan/tool-directory/internal/handlers"
	"github.com/bobmcallan/tool-directory/internal/mcp"
	"github.com/bobmcallan/tool-directory/internal/tooldir"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Loader *tooldir.Loader
	Tools  []*tooldir.Tool

	// HTTP handlers
	HealthHandler         *handlers.HealthHandler
	VersionHandler        *handlers.VersionHandler
	ToolsHandler          *handlers.ToolsHandler
	RegistryHealthHandler *handlers.RegistryHealthHandler
	MCPHandler            *mcp.Handler

	// client is shared by registry fetches, tool calls and the registry probe.
	client *http.Client
}

// New loads the configured integration and initializes every handler.
func New(ctx context.Context, cfg *config.Config, logger *common.Logger, opts ...tooldir.Option) (*App, error) {
	if issues := cfg.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("invalid configuration: %v", issues)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	a.client = &http.Client{Timeout: cfg.Registry.Timeout()}
	base := []tooldir.Option{
		tooldir.WithRegistryURL(cfg.Registry.URL),
		tooldir.WithHTTPClient(a.client),
		tooldir.WithLogger(logger),
	}
	loader, err := tooldir.Load(ctx, cfg.Integration.Name, cfg.Integration.Language, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load integration %s: %w", cfg.Integration.Name, err)
	}
	a.Loader = loader

	a.Tools, err = loader.Tools(cfg.Integration.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to compile tools for %s: %w", cfg.Integration.Name, err)
	}

	a.initHandlers()

	logger.Info().
		Str("integration", cfg.Integration.Name).
		Int("tools", len(a.Tools)).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.MCPHandler = mcp.NewHandler(mcp.Options{
		ServerName:  a.Config.MCP.Name,
		Integration: a.Loader.Name(),
		Language:    a.Loader.Language(),
	}, a.Tools, a.Logger)

	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.ToolsHandler = handlers.NewToolsHandler(a.Logger, a.MCPHandler, a.Loader.Name(), a.Loader.Language())
	a.RegistryHealthHandler = handlers.NewRegistryHealthHandler(a.Logger, a.Loader.IntegrationURL(), a.client)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// FindTool returns the tool whose name or MCP name is name.
func (a *App) FindTool(name string) (*tooldir.Tool, bool) {
	for i, entry := range a.MCPHandler.Catalog() {
		if entry.Name == name || entry.MCPName == name {
			return a.Tools[i], true
		}
	}
	return nil, false
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
