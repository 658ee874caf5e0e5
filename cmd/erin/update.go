package main

import (
	"fmt"
	"os"

	"github.com/bigladder/erin/internal/tomlconfig"
	"github.com/spf13/cobra"
)

var updateSafe bool

var updateCmd = &cobra.Command{
	Use:   "update <in.toml> [out.toml]",
	Short: "Migrate an older input format to the current one",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().BoolVarP(&updateSafe, "safe", "s", false, "parse and build the migrated document before writing it, aborting on error")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	inPath := args[0]
	outPath := inPath
	if len(args) == 2 {
		outPath = args[1]
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("update: reading %s: %w", inPath, err)
	}

	migrated, fromVersion, err := tomlconfig.Migrate(data)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if fromVersion >= tomlconfig.CurrentInputFormatVersion {
		cliLog.Info("%s is already at input_format_version %d, nothing to do", inPath, fromVersion)
		return nil
	}

	if updateSafe {
		doc, err := tomlconfig.Parse(migrated)
		if err != nil {
			return fmt.Errorf("update: migrated document failed to parse: %w", err)
		}
		if _, err := tomlconfig.Build(doc); err != nil {
			return fmt.Errorf("update: migrated document failed to build: %w", err)
		}
	}

	if err := os.WriteFile(outPath, migrated, 0644); err != nil {
		return fmt.Errorf("update: writing %s: %w", outPath, err)
	}
	cliLog.Info("migrated %s (input_format_version %d -> %d) to %s", inPath, fromVersion, tomlconfig.CurrentInputFormatVersion, outPath)
	return nil
}
