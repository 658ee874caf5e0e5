package tomlconfig

import (
	"fmt"

	"github.com/bigladder/erin/internal/model"
	"github.com/bigladder/erin/internal/scenario"
)

// BuildFailureModes converts every failure_mode.<tag> entry.
func BuildFailureModes(doc *Document) map[string]scenario.FailureModeDef {
	modes := make(map[string]scenario.FailureModeDef, len(doc.FailureMode))
	for tag, fm := range doc.FailureMode {
		modes[tag] = scenario.FailureModeDef{Tag: tag, FailureDist: fm.FailureDist, RepairDist: fm.RepairDist}
	}
	return modes
}

// BuildScenarios converts every scenarios.<tag> entry into a
// scenario.Scenario, resolving each component's failure_modes/
// fragility_modes tag lists (declared on the component itself in TOML)
// into the ComponentID-keyed maps scenario.Scenario carries.
func BuildScenarios(doc *Document, ids map[string]model.ComponentID) (map[string]scenario.Scenario, error) {
	failureModesByComponent := make(map[model.ComponentID][]string)
	fragilityModesByComponent := make(map[model.ComponentID][]string)
	for tag, c := range doc.Components {
		id, ok := ids[tag]
		if !ok {
			continue
		}
		if len(c.FailureModes) > 0 {
			failureModesByComponent[id] = c.FailureModes
		}
		if len(c.FragilityModes) > 0 {
			fragilityModesByComponent[id] = c.FragilityModes
		}
	}

	scenarios := make(map[string]scenario.Scenario, len(doc.Scenarios))
	for tag, sc := range doc.Scenarios {
		if sc.Duration <= 0 {
			return nil, fmt.Errorf("tomlconfig: scenario %q: duration must be positive", tag)
		}
		scenarios[tag] = scenario.Scenario{
			Tag:                     tag,
			DurationS:               sc.Duration,
			OccurrenceDistTag:       sc.OccurrenceDistribution,
			MaxOccurrences:          sc.MaxOccurrences,
			LoadScheduleKey:         tag,
			Intensities:             sc.Intensity,
			ComponentFailureModes:   failureModesByComponent,
			ComponentFragilityModes: fragilityModesByComponent,
		}
	}
	return scenarios, nil
}
