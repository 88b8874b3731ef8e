package scenario

import (
	"fmt"
	"io"
	"strings"
)

// WriteDOT renders the graph in Graphviz DOT format, highlighting the
// optimal path in red.
func (g *Graph) WriteDOT(w io.Writer) error {
	_, optimal := g.OptimalPath()
	onPath := make(map[string]bool, len(optimal))
	for _, state := range optimal {
		onPath[state] = true
	}

	var b strings.Builder
	b.WriteString("digraph scenario {\n")
	for id, n := range g.nodes {
		color := "lightgrey"
		if onPath[n.state] {
			color = "red"
		}
		fmt.Fprintf(&b, "  n%d [label=%q, color=%s, style=filled];\n", id, fmt.Sprintf("%s\nreward: %g", n.state, n.reward), color)
	}
	for id, n := range g.nodes {
		for action, edges := range n.children {
			fmt.Fprintf(&b, "  a%d_%s [label=%q, shape=box];\n", id, sanitize(action), action)
			fmt.Fprintf(&b, "  n%d -> a%d_%s;\n", id, id, sanitize(action))
			for _, e := range edges {
				color := "black"
				if onPath[n.state] && onPath[g.nodes[e.to].state] {
					color = "red"
				}
				fmt.Fprintf(&b, "  a%d_%s -> n%d [label=\"%.2f\", color=%s];\n", id, sanitize(action), e.to, e.prob, color)
			}
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, s)
}
