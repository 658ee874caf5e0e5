package tomlconfig

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/bigladder/erin/internal/model"
)

var connRefPattern = regexp.MustCompile(`^([^:]+):(IN|OUT)\((\d+)\)$`)

// connRef is one endpoint of a network.connections triple, e.g.
// "boiler:OUT(0)".
type connRef struct {
	Tag string
	Dir string // "IN" or "OUT"
	Port model.Port
}

// parseConnRef parses a connection-reference string per spec.md §6:
// `"<tag>:OUT(<port>)"` / `"<tag>:IN(<port>)"`.
func parseConnRef(s string) (connRef, error) {
	m := connRefPattern.FindStringSubmatch(s)
	if m == nil {
		return connRef{}, fmt.Errorf("tomlconfig: malformed connection reference %q", s)
	}
	port, err := strconv.Atoi(m[3])
	if err != nil {
		return connRef{}, fmt.Errorf("tomlconfig: bad port in %q: %w", s, err)
	}
	return connRef{Tag: m[1], Dir: m[2], Port: model.Port(port)}, nil
}
