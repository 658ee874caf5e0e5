package model

import "github.com/bigladder/erin/internal/flow"

// Connection is a directed edge carrying a single flow type between two
// (component, port) endpoints. ConnectionID is its insertion index.
type Connection struct {
	FromID   ComponentID
	FromPort Port
	ToID     ComponentID
	ToPort   Port
	FlowType flow.Type
}
