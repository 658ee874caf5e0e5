// Command erin is the ERIN batch CLI: run, graph, check, update,
// pack-loads, version, limits. One file per subcommand, with a
// package-level rootCmd wired up in init().
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
