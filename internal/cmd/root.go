package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dishtalgia",
	Short: "Dishtalgia storefront backend",
	Long: `Dishtalgia serves the storefront API: catalog, carts, accounts,
orders and checkout. Use "serve" to run the HTTP server, "seed" to load the
default catalog and the remaining commands for operational tasks.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
