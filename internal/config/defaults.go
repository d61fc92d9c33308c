package config

import "github.com/bobmcallan/tool-directory/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4251,
			Host: "localhost",
		},
		Registry: RegistryConfig{
			URL:            "https://tool-directory.dialogplay.jp",
			TimeoutSeconds: 60,
		},
		Integration: IntegrationConfig{
			Language:   "en",
			Parameters: map[string]string{},
		},
		MCP: MCPConfig{
			Name: "tool-directory",
		},
		Logging: common.LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
