package main

import (
	"fmt"
	"os"

	"github.com/bigladder/erin/internal/graphviz"
	"github.com/bigladder/erin/internal/tomlconfig"
	"github.com/spf13/cobra"
)

var (
	graphOutPath    string
	graphSubtypes   bool
)

var graphCmd = &cobra.Command{
	Use:   "graph <toml_file>",
	Short: "Emit a Graphviz DOT rendering of the network",
	Args:  cobra.ExactArgs(1),
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().StringVarP(&graphOutPath, "output", "o", "out.dot", "DOT output path")
	graphCmd.Flags().BoolVarP(&graphSubtypes, "subtypes", "s", false, "include each component's kind in its label")
}

func runGraph(cmd *cobra.Command, args []string) error {
	doc, err := parseDocument(args[0])
	if err != nil {
		return err
	}
	result, err := tomlconfig.Build(doc)
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	dot := graphviz.WriteDOT(result.Model, "network", graphSubtypes)
	if err := os.WriteFile(graphOutPath, []byte(dot), 0644); err != nil {
		return fmt.Errorf("graph: writing %s: %w", graphOutPath, err)
	}
	cliLog.Info("wrote %s", graphOutPath)
	return nil
}
