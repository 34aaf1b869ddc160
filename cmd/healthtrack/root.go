package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "healthtrack",
	Short: "Personal health tracking API",
	Long: `healthtrack serves the weight, sleep and calorie tracking API.

Configuration is read from config/<ENV>.yaml and overridden by environment
variables, e.g. JWT_SIGNINGKEY or DATABASE_DRIVER.

  $ healthtrack serve      # run the HTTP API (default)
  $ healthtrack migrate    # create or update the database schema`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
