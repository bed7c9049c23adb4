package main

import (
	"os"

	"github.com/spf13/cobra"
)

func buildRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use:   "pg-schema-inspect",
		Short: "Inspect the objects of a Postgres database, order them by dependency and plan migrations between schemas",
	}
	rootFlags := createRootFlags(rootCmd)

	rootCmd.AddCommand(buildInspectCmd(rootFlags))
	rootCmd.AddCommand(buildOrderCmd(rootFlags))
	rootCmd.AddCommand(buildPlanCmd(rootFlags))
	rootCmd.AddCommand(buildApplyCmd(rootFlags))
	rootCmd.AddCommand(buildValidateCmd(rootFlags))
	rootCmd.AddCommand(buildVersionCmd())
	return rootCmd
}

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
