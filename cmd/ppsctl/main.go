package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/davidtseymour/personal-productivity-system/cmd/ppsctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ppsctl",
		Short:        "Admin tools for the personal productivity system",
		SilenceUsage: true,
	}

	cobra.OnInitialize(cmd.InitConfig)
	cmd.AddPersistentFlags(rootCmd)

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.UserCmd())
	rootCmd.AddCommand(cmd.GoalsCmd())
	rootCmd.AddCommand(cmd.TasksCmd())
	rootCmd.AddCommand(cmd.MetricsCmd())
	rootCmd.AddCommand(cmd.SummaryCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
