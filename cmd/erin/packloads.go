package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/bigladder/erin/internal/csvio"
	"github.com/bigladder/erin/internal/model"
	"github.com/spf13/cobra"
)

var packLoadsOutPath string

var packLoadsCmd = &cobra.Command{
	Use:   "pack-loads <toml_file>",
	Short: "Combine every declared [loads.*] table onto a common time grid and write one CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runPackLoads,
}

func init() {
	packLoadsCmd.Flags().StringVarP(&packLoadsOutPath, "output", "o", "packed.csv", "packed loads output CSV path")
}

func runPackLoads(cmd *cobra.Command, args []string) error {
	doc, err := parseDocument(args[0])
	if err != nil {
		return err
	}

	loads := make(map[string][]model.TimeAndAmount, len(doc.Loads))
	tags := make([]string, 0, len(doc.Loads))
	for tag := range doc.Loads {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		loads[tag] = pairsToTimeAndAmount(doc.Loads[tag].TimeRatePairs)
	}

	f, err := os.Create(packLoadsOutPath)
	if err != nil {
		return fmt.Errorf("pack-loads: creating %s: %w", packLoadsOutPath, err)
	}
	defer f.Close()

	if err := csvio.WritePackLoads(f, loads); err != nil {
		return fmt.Errorf("pack-loads: %w", err)
	}
	cliLog.Info("wrote %s (%d load(s))", packLoadsOutPath, len(loads))
	return nil
}

// pairsToTimeAndAmount mirrors tomlconfig's own (time_s, amount_W) pair
// conversion; kept as a small local copy since that helper is unexported
// and this is its only use outside the tomlconfig package.
func pairsToTimeAndAmount(pairs [][2]float64) []model.TimeAndAmount {
	out := make([]model.TimeAndAmount, len(pairs))
	for i, p := range pairs {
		out[i] = model.TimeAndAmount{Time: p[0], Amount: p[1]}
	}
	return out
}
