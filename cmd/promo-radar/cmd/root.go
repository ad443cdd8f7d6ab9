// Package cmd implements the CLI commands for the promo-radar server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "promo-radar",
	Short: "Aggregate discounted offers from eBay and Mercado Livre",
	Long:  "An API service that searches eBay and Mercado Livre for discounted products, normalizes prices into BRL, and serves the best offers sorted by discount.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
