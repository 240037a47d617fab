package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "examctl",
		Short:         "Operator tooling for the examhall backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(migrateCmd(), hashPasswordCmd(), resultsCmd(), seedDemoCmd())
	return root
}
