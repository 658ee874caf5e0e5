package main

import (
	"fmt"
	"os"

	"github.com/bigladder/erin/internal/distribution"
	"github.com/bigladder/erin/internal/model"
	"github.com/bigladder/erin/internal/reliability"
	"github.com/bigladder/erin/internal/scenario"
	"github.com/bigladder/erin/internal/tomlconfig"
)

// defaultSeed seeds every run's distribution.System when no --seed flag
// is given: deterministic and documented, not drawn from time/entropy,
// per spec.md §5 ("deterministic given its seed").
const defaultSeed = int64(42)

// loadedModel bundles everything Build/BuildDistributions/BuildScenarios
// produce for one parsed input file, the shape every subcommand that
// touches a model needs.
type loadedModel struct {
	doc             *tomlconfig.Document
	result          *tomlconfig.BuildResult
	distributions   *distribution.System
	failureModes    map[string]scenario.FailureModeDef
	fragilityModes  map[string]reliability.FragilityMode
	fragilityCurves map[string]reliability.FragilityCurve
	scenarios       map[string]scenario.Scenario
}

// parseDocument reads and parses path's TOML without building a model,
// used directly by subcommands (graph, check, pack-loads) that do not need
// the distribution, reliability and scenario tables loadModel builds.
func parseDocument(path string) (*tomlconfig.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := tomlconfig.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// loadModel parses path and builds the full model + distribution system +
// reliability/scenario tables, per seed. It does not itself treat fatal
// model.ValidationIssues as an error — its caller (run) inspects
// result.Issues itself.
func loadModel(path string, seed int64) (*loadedModel, error) {
	doc, err := parseDocument(path)
	if err != nil {
		return nil, err
	}

	result, err := tomlconfig.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("building model from %s: %w", path, err)
	}

	ds, err := tomlconfig.BuildDistributions(doc, seed)
	if err != nil {
		return nil, err
	}
	curves, err := tomlconfig.BuildFragilityCurves(doc)
	if err != nil {
		return nil, err
	}
	fragilityModes := tomlconfig.BuildFragilityModes(doc)
	failureModes := tomlconfig.BuildFailureModes(doc)
	scenarios, err := tomlconfig.BuildScenarios(doc, result.ComponentIDByTag)
	if err != nil {
		return nil, err
	}

	return &loadedModel{
		doc:             doc,
		result:          result,
		distributions:   ds,
		failureModes:    failureModes,
		fragilityModes:  fragilityModes,
		fragilityCurves: curves,
		scenarios:       scenarios,
	}, nil
}

// printIssues prints one line per issue via its own String(), which
// already renders the "[ERROR]"/"[WARNING] tag: message" shape spec.md
// §6 requires of every diagnostic, so these are written directly rather
// than re-wrapped through cliLog (which would double-tag them).
func printIssues(issues []model.ValidationIssue) {
	for _, issue := range issues {
		fmt.Println(issue.String())
	}
}
