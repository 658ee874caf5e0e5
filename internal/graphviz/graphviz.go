// Package graphviz renders a model's component graph as Graphviz DOT:
// one record/HTML-table node per component (one cell per wired port)
// plus one edge per model.Connection, colored by flow type so a reader
// can tell commodities apart at a glance ("-s" subtype-label flag is
// exposed here as WriteDOT's withSubtypes argument).
package graphviz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bigladder/erin/internal/model"
)

// edgeColors cycles a small fixed palette across flow types in the order
// first encountered, so the same flow type always gets the same color
// within one rendering and distinct types are visually distinguishable.
var edgeColors = []string{"black", "blue", "darkgreen", "darkorange", "purple", "brown", "deeppink"}

type portSet struct {
	in  map[model.Port]struct{}
	out map[model.Port]struct{}
}

func newPortSet() *portSet {
	return &portSet{in: map[model.Port]struct{}{}, out: map[model.Port]struct{}{}}
}

// WriteDOT renders m's connection graph as a DOT digraph named
// graphName. When withSubtypes is true, each node's label is suffixed
// with its component kind (e.g. "genset (ConstantEfficiencyConverter)"),
// mirroring spec.md §6's graph command "-s" flag.
func WriteDOT(m *model.Model, graphName string, withSubtypes bool) string {
	ports := map[model.ComponentID]*portSet{}
	order := []model.ComponentID{}
	ensure := func(id model.ComponentID) *portSet {
		ps, ok := ports[id]
		if !ok {
			ps = newPortSet()
			ports[id] = ps
			order = append(order, id)
		}
		return ps
	}

	colorByType := map[string]string{}
	nextColor := 0
	colorFor := func(typeTag string) string {
		if c, ok := colorByType[typeTag]; ok {
			return c
		}
		c := edgeColors[nextColor%len(edgeColors)]
		nextColor++
		colorByType[typeTag] = c
		return c
	}

	var connections strings.Builder
	for _, conn := range m.Connections {
		ensure(conn.FromID).out[conn.FromPort] = struct{}{}
		ensure(conn.ToID).in[conn.ToPort] = struct{}{}

		typeTag := m.Types.Tag(conn.FlowType)
		fmt.Fprintf(&connections, "  %q:O%d:s -> %q:I%d:n [color=%q,label=%q];\n",
			nodeID(m, conn.FromID), conn.FromPort,
			nodeID(m, conn.ToID), conn.ToPort,
			colorFor(typeTag), typeTag)
	}

	sort.Slice(order, func(i, j int) bool { return nodeID(m, order[i]) < nodeID(m, order[j]) })

	var declarations strings.Builder
	fmt.Fprintf(&declarations, "digraph %s {\n", graphName)
	declarations.WriteString("  node [shape=none];\n")
	for _, id := range order {
		declarations.WriteString(nodeDeclaration(m, id, ports[id], withSubtypes))
	}

	return declarations.String() + connections.String() + "}"
}

func nodeID(m *model.Model, id model.ComponentID) string {
	return m.Components[id].Tag
}

func nodeDeclaration(m *model.Model, id model.ComponentID, ps *portSet, withSubtypes bool) string {
	tag := nodeID(m, id)
	label := tag
	if withSubtypes {
		label = fmt.Sprintf("%s (%s)", tag, m.Components[id].Kind)
	}
	return fmt.Sprintf("  %q [label=%s];\n", tag, buildHTMLLabel(label, ps))
}

// buildHTMLLabel builds an HTML-like table label with one cell per
// wired input port, the component's own label cell, then one cell per
// wired output port, matching build_label_html's layout.
func buildHTMLLabel(label string, ps *portSet) string {
	var b strings.Builder
	b.WriteString("<\n    <TABLE BORDER=\"0\" CELLBORDER=\"1\" CELLSPACING=\"0\" CELLPADDING=\"4\">\n      <TR>\n")
	for _, p := range sortedPorts(ps.in) {
		fmt.Fprintf(&b, "        <TD PORT=\"I%d\" BGCOLOR=\"lightgrey\">I(%d)</TD>\n", p, p)
	}
	fmt.Fprintf(&b, "        <TD PORT=\"name\">%s</TD>\n", label)
	for _, p := range sortedPorts(ps.out) {
		fmt.Fprintf(&b, "        <TD PORT=\"O%d\" BGCOLOR=\"lightgrey\">O(%d)</TD>\n", p, p)
	}
	b.WriteString("      </TR>\n    </TABLE>>")
	return b.String()
}

func sortedPorts(set map[model.Port]struct{}) []model.Port {
	out := make([]model.Port, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
