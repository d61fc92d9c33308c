package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/tool-directory/internal/common"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			common.LoadVersionFromFile()
			fmt.Fprintf(cmd.OutOrStdout(), "tooldir version %s\n", common.GetFullVersion())
		},
	}
}
