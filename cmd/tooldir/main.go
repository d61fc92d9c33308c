// Command tooldir serves the tools of one tool-directory integration over
// MCP and HTTP, and can list or call them from the shell.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
