package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

// writeDOT emits an undirected Graphviz graph. Node boxes carry the
// map's fill colors so `dot -Tpng` output resembles the canvas.
func writeDOT(w io.Writer, m *mindmap.Map) error {
	var b strings.Builder

	// The title is emitted as a quoted ID; bare IDs cannot start
	// with a digit and titles like "2024 Goals" are common
	fmt.Fprintf(&b, "graph %q {\n", graphName(m.Title))
	b.WriteString("  node [shape=box, style=filled];\n")

	doc := m.Document()
	for _, node := range doc.Nodes {
		fill := node.Style.Fill
		if fill == "" {
			fill = mindmap.DefaultNodeFill
		}
		fmt.Fprintf(&b, "  %q [label=%q, fillcolor=%q];\n", node.ID, node.Text, fill)
	}
	for _, edge := range doc.Edges {
		if edge.Label != "" {
			fmt.Fprintf(&b, "  %q -- %q [label=%q];\n", edge.A, edge.B, edge.Label)
		} else {
			fmt.Fprintf(&b, "  %q -- %q;\n", edge.A, edge.B)
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// graphName picks the graph's display name, falling back for
// empty titles
func graphName(title string) string {
	if strings.TrimSpace(title) == "" {
		return "mindmap"
	}
	return title
}
