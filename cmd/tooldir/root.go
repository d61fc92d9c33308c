package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/tool-directory/internal/app"
	"github.com/bobmcallan/tool-directory/internal/common"
	"github.com/bobmcallan/tool-directory/internal/config"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFiles []string
	integration string
	language    string
	registry    string
	params      []string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "tooldir",
		Short:         "Expose a tool-directory integration as callable tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = common.GetFullVersion()

	pf := root.PersistentFlags()
	pf.StringArrayVarP(&flags.configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times)")
	pf.StringVarP(&flags.integration, "integration", "i", "", "Integration name (overrides config)")
	pf.StringVarP(&flags.language, "language", "l", "", "Description language, e.g. ja-JP (overrides config)")
	pf.StringVar(&flags.registry, "registry", "", "Tool directory URL (overrides config)")
	pf.StringArrayVarP(&flags.params, "param", "P", nil, "Constant parameter name=value sent with every request")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newToolsCmd(flags))
	root.AddCommand(newCallCmd(flags))
	root.AddCommand(newVersionCmd())

	return root
}

// loadConfig resolves configuration: defaults -> files -> env -> flags.
func (f *globalFlags) loadConfig(port int, host string) (*config.Config, error) {
	files := f.configFiles
	if len(files) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(files...)
	if err != nil {
		return nil, err
	}

	config.ApplyFlagOverrides(cfg, port, host, f.integration, f.language)
	if f.registry != "" {
		cfg.Registry.URL = f.registry
	}
	if err := config.ApplyParameterOverrides(cfg, f.params); err != nil {
		return nil, err
	}

	if issues := cfg.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("configuration error:\n  - %s", strings.Join(issues, "\n  - "))
	}
	return cfg, nil
}

// loadApp loads configuration and the integration it names.
func (f *globalFlags) loadApp(ctx context.Context, port int, host string) (*app.App, error) {
	common.LoadVersionFromFile()

	cfg, err := f.loadConfig(port, host)
	if err != nil {
		return nil, err
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Debug().
		Str("integration", cfg.Integration.Name).
		Str("language", cfg.Integration.Language).
		Str("registry", cfg.Registry.URL).
		Int("parameters", len(cfg.Integration.Parameters)).
		Msg("configuration loaded")

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return application, nil
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, with CWD fallbacks after.
func configSearchPaths() []string {
	candidates := []string{
		"tooldir.toml",
		"config/tooldir.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "tooldir.toml"),
		filepath.Join(binDir, "config", "tooldir.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
