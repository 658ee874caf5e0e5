package main

import (
	"fmt"

	"github.com/bigladder/erin/internal/model"
	"github.com/bigladder/erin/internal/tomlconfig"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <toml_file>",
	Short: "Validate connectivity without running a simulation",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	doc, err := parseDocument(args[0])
	if err != nil {
		return err
	}
	result, err := tomlconfig.Build(doc)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	printIssues(result.Issues)
	if model.HasFatal(result.Issues) {
		return fmt.Errorf("check: %d issue(s) found, at least one fatal", len(result.Issues))
	}
	cliLog.Info("check: %s is valid (%d issue(s), none fatal)", args[0], len(result.Issues))
	return nil
}
