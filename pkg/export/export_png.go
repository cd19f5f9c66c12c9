package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

const pngMargin = 40

// writePNG rasterizes the map. Rendering is deliberately plain:
// straight edge lines, filled node boxes, labels in a fixed bitmap font.
func writePNG(w io.Writer, m *mindmap.Map) error {
	minX, minY, maxX, maxY := canvasBounds(m)
	offX := float64(pngMargin) - minX
	offY := float64(pngMargin) - minY
	width := int(math.Ceil(maxX-minX)) + 2*pngMargin
	height := int(math.Ceil(maxY-minY)) + 2*pngMargin

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	edgeColor := color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	for _, edge := range m.Edges {
		a, okA := m.Nodes[edge.A]
		b, okB := m.Nodes[edge.B]
		if !okA || !okB {
			continue
		}
		ax, ay := a.Center()
		bx, by := b.Center()
		drawLine(img, int(ax+offX), int(ay+offY), int(bx+offX), int(by+offY), edgeColor)
	}

	doc := m.Document()
	for _, node := range doc.Nodes {
		fill := parseHexColor(node.Style.Fill, mindmap.DefaultNodeFill)
		stroke := parseHexColor(node.Style.Stroke, mindmap.DefaultNodeStroke)

		rect := image.Rect(
			int(node.X+offX), int(node.Y+offY),
			int(node.X+node.Width+offX), int(node.Y+node.Height+offY),
		)
		draw.Draw(img, rect, image.NewUniform(fill), image.Point{}, draw.Src)
		drawRectOutline(img, rect, stroke)

		drawCenteredLabel(img, rect, node.Text)
	}

	return png.Encode(w, img)
}

// drawCenteredLabel writes text centered in rect using the builtin
// 7x13 bitmap face, truncating what does not fit
func drawCenteredLabel(img *image.RGBA, rect image.Rectangle, text string) {
	face := basicfont.Face7x13
	maxChars := (rect.Dx() - 8) / 7
	if maxChars <= 0 {
		return
	}
	// truncate on rune boundaries so multi-byte text is never
	// cut mid-sequence
	if runes := []rune(text); len(runes) > maxChars {
		text = string(runes[:maxChars])
	}

	textWidth := font.MeasureString(face, text).Ceil()
	x := rect.Min.X + (rect.Dx()-textWidth)/2
	y := rect.Min.Y + rect.Dy()/2 + face.Ascent/2

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// drawLine draws a 1px line with the integer Bresenham algorithm
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawRectOutline(img *image.RGBA, rect image.Rectangle, c color.Color) {
	for x := rect.Min.X; x < rect.Max.X; x++ {
		img.Set(x, rect.Min.Y, c)
		img.Set(x, rect.Max.Y-1, c)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		img.Set(rect.Min.X, y, c)
		img.Set(rect.Max.X-1, y, c)
	}
}

// parseHexColor parses #rgb or #rrggbb, falling back on bad input
func parseHexColor(s, fallback string) color.RGBA {
	if s == "" {
		s = fallback
	}
	c := color.RGBA{A: 0xff}
	switch len(s) {
	case 7:
		c.R = hexByte(s[1], s[2])
		c.G = hexByte(s[3], s[4])
		c.B = hexByte(s[5], s[6])
	case 4:
		c.R = hexByte(s[1], s[1])
		c.G = hexByte(s[2], s[2])
		c.B = hexByte(s[3], s[3])
	default:
		return parseHexColor(fallback, "#cccccc")
	}
	return c
}

func hexByte(hi, lo byte) byte {
	return hexVal(hi)<<4 | hexVal(lo)
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
