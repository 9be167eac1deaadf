package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "registryctl",
		Short: "Gift registry tooling: product extraction and store lookup",
		Long: `registryctl runs the gift registry's product extraction pipeline from
the terminal. It reads the same REGISTRY_* environment and config.yaml as
the server.`,
		SilenceUsage: true,
	}

	root.AddCommand(extractCmd())
	root.AddCommand(storesCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "registryctl %s\n", version)
		},
	}
}
