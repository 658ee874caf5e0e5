package main

import (
	"github.com/spf13/cobra"
)

// version is overwritten at build time via -ldflags, the same convention
// chaos-runner uses for its own version variable.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "erin",
	Short:   "Energy Resilience of Interacting Networks simulator",
	Long:    `erin simulates time-domain energy flow through a network of sources, converters, storage, loads, muxes, movers, and pass-throughs under scheduled and stochastic disruptions.`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(packLoadsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(limitsCmd)
}
