package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/giftregistry/backend/internal/usecase"
)

// storesCmd creates the "stores" subcommand.
func storesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stores [url]...",
		Short: "List known stores, or classify the given URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if len(args) == 0 {
				fmt.Fprintln(w, "PATTERN\tSTORE")
				for _, p := range usecase.StorePatterns() {
					fmt.Fprintf(w, "%s\t%s\n", p.Pattern, p.Name)
				}
				return w.Flush()
			}

			fmt.Fprintln(w, "URL\tSTORE")
			for _, rawURL := range args {
				fmt.Fprintf(w, "%s\t%s\n", rawURL, usecase.ClassifyStore(rawURL))
			}
			return w.Flush()
		},
	}
}
