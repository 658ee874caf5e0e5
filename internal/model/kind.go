// Package model implements the component/connection data model of §3: a
// typed Structure-of-Arrays registry of components, a directed connection
// graph between them, and the per-kind semantic tables the propagation
// kernel reads and writes.
package model

import "fmt"

// Kind tags which per-kind table a Component's SubtypeIdx indexes into.
// Wrapped in its own type (rather than a bare int) so a SubtypeIdx from one
// kind's table cannot be silently used to index another's, per the
// source's tagged-index pattern (spec.md §9).
type Kind uint8

const (
	KindConstantLoad Kind = iota
	KindScheduleBasedLoad
	KindConstantSource
	KindScheduleBasedSource
	KindConstantEfficiencyConverter
	KindVariableEfficiencyConverter
	KindMover
	KindVariableEfficiencyMover
	KindMux
	KindStore
	KindPassThrough
	KindSwitch
	KindWasteSink
	KindEnvironmentSource
	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindConstantLoad:
		return "ConstantLoad"
	case KindScheduleBasedLoad:
		return "ScheduleBasedLoad"
	case KindConstantSource:
		return "ConstantSource"
	case KindScheduleBasedSource:
		return "ScheduleBasedSource"
	case KindConstantEfficiencyConverter:
		return "ConstantEfficiencyConverter"
	case KindVariableEfficiencyConverter:
		return "VariableEfficiencyConverter"
	case KindMover:
		return "Mover"
	case KindVariableEfficiencyMover:
		return "VariableEfficiencyMover"
	case KindMux:
		return "Mux"
	case KindStore:
		return "Store"
	case KindPassThrough:
		return "PassThrough"
	case KindSwitch:
		return "Switch"
	case KindWasteSink:
		return "WasteSink"
	case KindEnvironmentSource:
		return "EnvironmentSource"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// SubtypeIdx indexes into the per-kind SoA table named by a Component's
// Kind. It is distinct from ComponentID (the global insertion index) by
// design: mixing the two up silently is exactly the bug class spec.md §9
// calls out.
type SubtypeIdx uint32

// ComponentID is the global insertion-order identity of a logical
// component, shared across all kinds.
type ComponentID uint32

// ConnectionID is the insertion-order identity of a directed connection.
type ConnectionID uint32

// Port is a typed, ordered attachment point on a component, indexed from 0.
type Port int
