package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

func newToolsCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools compiled from the integration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			application, err := flags.loadApp(ctx, 0, "")
			if err != nil {
				return err
			}
			defer application.Close()

			catalog := application.MCPHandler.Catalog()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(catalog)
			}

			for _, entry := range catalog {
				fmt.Fprintf(out, "%s  [%s]\n", entry.Name, entry.MCPName)
				for _, line := range strings.Split(entry.Description, "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
				for _, p := range entry.Params {
					req := ""
					if p.Required {
						req = " (required)"
					}
					fmt.Fprintf(out, "    - %s in %s%s\n", p.Name, p.In, req)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")
	return cmd
}
