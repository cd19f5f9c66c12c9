package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

const svgMargin = 40.0

// writeSVG renders the map as a standalone SVG document. Edges are
// drawn first, between node centers, then node boxes and labels on top.
func writeSVG(w io.Writer, m *mindmap.Map) error {
	minX, minY, maxX, maxY := canvasBounds(m)
	width := maxX - minX + 2*svgMargin
	height := maxY - minY + 2*svgMargin
	offX := svgMargin - minX
	offY := svgMargin - minY

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)
	b.WriteString(`  <rect width="100%" height="100%" fill="#ffffff"/>` + "\n")

	doc := m.Document()

	for _, edge := range doc.Edges {
		a, okA := m.Nodes[edge.A]
		bn, okB := m.Nodes[edge.B]
		if !okA || !okB {
			continue
		}
		ax, ay := a.Center()
		bx, by := bn.Center()
		fmt.Fprintf(&b, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#888888" stroke-width="2"/>`+"\n",
			ax+offX, ay+offY, bx+offX, by+offY)
		if edge.Label != "" {
			fmt.Fprintf(&b, `  <text x="%.1f" y="%.1f" font-size="10" fill="#555555" text-anchor="middle">%s</text>`+"\n",
				(ax+bx)/2+offX, (ay+by)/2+offY-4, escapeXML(edge.Label))
		}
	}

	for _, node := range doc.Nodes {
		fill := node.Style.Fill
		if fill == "" {
			fill = mindmap.DefaultNodeFill
		}
		stroke := node.Style.Stroke
		if stroke == "" {
			stroke = mindmap.DefaultNodeStroke
		}
		fontSize := node.Style.FontSize
		if fontSize == 0 {
			fontSize = mindmap.DefaultFontSize
		}
		fmt.Fprintf(&b, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			node.X+offX, node.Y+offY, node.Width, node.Height, fill, stroke)
		fmt.Fprintf(&b, `  <text x="%.1f" y="%.1f" font-size="%d" font-family="sans-serif" fill="#222222" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			node.X+node.Width/2+offX, node.Y+node.Height/2+offY, fontSize, escapeXML(node.Text))
	}

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// canvasBounds returns the bounding box around all node rectangles
func canvasBounds(m *mindmap.Map) (minX, minY, maxX, maxY float64) {
	if len(m.Nodes) == 0 {
		return 0, 0, 400, 300
	}
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY = -math.MaxFloat64, -math.MaxFloat64
	for _, node := range m.Nodes {
		minX = math.Min(minX, node.X)
		minY = math.Min(minY, node.Y)
		maxX = math.Max(maxX, node.X+node.Width)
		maxY = math.Max(maxY, node.Y+node.Height)
	}
	return minX, minY, maxX, maxY
}

func escapeXML(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
