package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/tool-directory/internal/common"
	"github.com/pelletier/go-toml/v2"
)

// envPrefix prefixes every environment override.
const envPrefix = "TOOLDIR_"

// paramEnvPrefix marks an environment variable as a constant parameter.
const paramEnvPrefix = envPrefix + "PARAM_"

// Config represents the application configuration.
type Config struct {
	Server      ServerConfig         `toml:"server"`
	Registry    RegistryConfig       `toml:"registry"`
	Integration IntegrationConfig    `toml:"integration"`
	MCP         MCPConfig            `toml:"mcp"`
	Logging     common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// RegistryConfig locates the tool directory.
type RegistryConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// IntegrationConfig selects the integration to serve.
type IntegrationConfig struct {
	Name     string `toml:"name"`
	Language string `toml:"language"`
	// Parameters are sent with every tool request, e.g. API keys.
	Parameters map[string]string `toml:"parameters"`
}

// MCPConfig contains MCP server settings.
type MCPConfig struct {
	Name string `toml:"name"`
}

// Timeout returns the registry and tool request timeout.
func (c *RegistryConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Address returns host:port.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config, os.Environ())

	return config, nil
}

// applyEnvOverrides applies TOOLDIR_* environment variable overrides to config.
func applyEnvOverrides(config *Config, environ []string) {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[k] = v
		if name, ok := strings.CutPrefix(k, paramEnvPrefix); ok && name != "" {
			if config.Integration.Parameters == nil {
				config.Integration.Parameters = map[string]string{}
			}
			config.Integration.Parameters[name] = v
		}
	}

	if port := env[envPrefix+"SERVER_PORT"]; port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := env[envPrefix+"SERVER_HOST"]; host != "" {
		config.Server.Host = host
	}
	if registry := env[envPrefix+"REGISTRY_URL"]; registry != "" {
		config.Registry.URL = registry
	}
	if name := env[envPrefix+"INTEGRATION"]; name != "" {
		config.Integration.Name = name
	}
	if language := env[envPrefix+"LANGUAGE"]; language != "" {
		config.Integration.Language = language
	}
	if level := env[envPrefix+"LOG_LEVEL"]; level != "" {
		config.Logging.Level = level
	}
	if format := env[envPrefix+"LOG_FORMAT"]; format != "" {
		config.Logging.Format = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host, integration, language string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if integration != "" {
		config.Integration.Name = integration
	}
	if language != "" {
		config.Integration.Language = language
	}
}

// ApplyParameterOverrides merges name=value pairs into the constant parameters.
func ApplyParameterOverrides(config *Config, pairs []string) error {
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return fmt.Errorf("invalid parameter %q: expected name=value", pair)
		}
		if config.Integration.Parameters == nil {
			config.Integration.Parameters = map[string]string{}
		}
		config.Integration.Parameters[name] = value
	}
	return nil
}

// Validate returns every configuration problem found, or nil.
func (c *Config) Validate() []string {
	var issues []string
	if c.Integration.Name == "" {
		issues = append(issues, "integration.name is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if u, err := url.Parse(c.Registry.URL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, fmt.Sprintf("registry.url %q must be an absolute URL", c.Registry.URL))
	}
	if c.Registry.TimeoutSeconds < 0 {
		issues = append(issues, "registry.timeout_seconds must not be negative")
	}
	return issues
}
