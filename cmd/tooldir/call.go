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

func newCallCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [name=value...]",
		Short: "Invoke one tool by its name or MCP name and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs, err := parseCallArgs(args[1:])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			application, err := flags.loadApp(ctx, 0, "")
			if err != nil {
				return err
			}
			defer application.Close()

			tool, ok := application.FindTool(args[0])
			if !ok {
				return fmt.Errorf("no tool named %q in integration %s", args[0], application.Loader.Name())
			}

			result, err := tool.Invoke(ctx, callArgs)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}
}

// parseCallArgs turns name=value pairs into tool arguments.
func parseCallArgs(pairs []string) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid argument %q: expected name=value", pair)
		}
		args[name] = value
	}
	return args, nil
}

func printResult(cmd *cobra.Command, result any) error {
	out := cmd.OutOrStdout()
	switch v := result.(type) {
	case nil:
		return nil
	case string:
		_, err := fmt.Fprintln(out, v)
		return err
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
