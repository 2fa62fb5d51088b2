// Command docchat answers questions over the Hoisington document index.
//
// Usage:
//
//	docchat mcp                       # MCP server over stdio (analyze, documents)
//	docchat serve                     # HTTP API: /v1/search, /health, /metrics
//	docchat query "What is Azure?"    # one-shot query, JSON on stdout
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/docchat/internal/config"
	"github.com/kailas-cloud/docchat/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var env string

	root := &cobra.Command{
		Use:           "docchat",
		Short:         "Hybrid semantic search over the Hoisington documents",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&env, "env", config.GetEnv(), "config environment (local, dev, prod)")

	root.AddCommand(newMCPCmd(&env))
	root.AddCommand(newServeCmd(&env))
	root.AddCommand(newQueryCmd(&env))

	return root
}
