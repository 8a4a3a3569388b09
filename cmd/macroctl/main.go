package main

import (
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"github.com/templui/macrotrack/cmd/macroctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "macroctl",
		Short:        "Operator tools for macrotrack",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.TokenCmd())
	rootCmd.AddCommand(cmd.SeedCmd())
	rootCmd.AddCommand(cmd.SummariesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
