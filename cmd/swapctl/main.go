package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the entry point for the operational CLI.
var rootCmd = &cobra.Command{
	Use:   "swapctl",
	Short: "Operational tooling for the skill swap backend",
	Long: `swapctl bundles the operational tasks that run outside the API server:
database migrations and admin provisioning.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
