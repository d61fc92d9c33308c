package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/bobmcallan/tool-directory/internal/server"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		port  int
		host  string
		stdio bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the integration's tools over MCP (streamable HTTP or stdio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := flags.loadApp(ctx, port, host)
			if err != nil {
				return err
			}
			defer application.Close()
			logger := application.Logger

			if stdio {
				// stdout carries MCP frames; logs go to stderr.
				logger.Info().Int("tools", len(application.Tools)).Msg("serving MCP over stdio")
				if err := mcpserver.ServeStdio(application.MCPHandler.MCPServer()); err != nil {
					return fmt.Errorf("stdio server error: %w", err)
				}
				return nil
			}

			srv := server.New(application)
			errChan := make(chan error, 1)
			go func() {
				errChan <- srv.Start()
			}()

			logger.Info().
				Str("url", fmt.Sprintf("http://%s", application.Config.Server.Address())).
				Str("mcp", fmt.Sprintf("http://%s/mcp", application.Config.Server.Address())).
				Msg("server ready")

			select {
			case err := <-errChan:
				return err
			case <-ctx.Done():
				logger.Info().Msg("shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Str("error", err.Error()).Msg("server shutdown failed")
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Server port (overrides config)")
	cmd.Flags().StringVar(&host, "host", "", "Server host (overrides config)")
	cmd.Flags().BoolVar(&stdio, "stdio", false, "Use stdio transport (for desktop MCP clients)")
	return cmd
}
