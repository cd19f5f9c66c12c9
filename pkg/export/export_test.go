package export

import (
	"bytes"
	"encoding/json"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

func exportTestMap() *mindmap.Map {
	return &mindmap.Map{
		ID:    "m1",
		Title: "Trip Planning",
		Nodes: map[string]*mindmap.Node{
			"n1": {ID: "n1", Text: "Trip", X: 100, Y: 100, Width: 160, Height: 52},
			"n2": {ID: "n2", Text: "Budget", X: 400, Y: 220, Width: 160, Height: 52,
				Style: mindmap.Style{Fill: "#cde", Stroke: "#333333"}},
		},
		Edges: map[string]*mindmap.Edge{
			"e1": {ID: "e1", A: "n1", B: "n2", Label: "needs"},
		},
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, exportTestMap(), FormatJSON))

	var doc mindmap.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Trip Planning", doc.Title)
	assert.Len(t, doc.Nodes, 2)
	assert.Len(t, doc.Edges, 1)
}

func TestExportDOT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, exportTestMap(), FormatDOT))

	out := buf.String()
	assert.Contains(t, out, `graph "Trip Planning" {`)
	assert.Contains(t, out, `"n1" [label="Trip"`)
	assert.Contains(t, out, `"n1" -- "n2" [label="needs"];`)
	assert.Contains(t, out, `fillcolor="#fffacd"`)
}

func TestExportDOTQuotesGraphName(t *testing.T) {
	m := exportTestMap()
	m.Title = "2024 Goals"

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, m, FormatDOT))
	assert.Contains(t, buf.String(), `graph "2024 Goals" {`)

	m.Title = "   "
	buf.Reset()
	require.NoError(t, Export(&buf, m, FormatDOT))
	assert.Contains(t, buf.String(), `graph "mindmap" {`)
}

func TestExportSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, exportTestMap(), FormatSVG))

	out := buf.String()
	assert.Contains(t, out, `<svg xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, out, ">Trip</text>")
	assert.Contains(t, out, `fill="#cde"`)
	assert.Contains(t, out, "<line ")
}

func TestExportSVGEscapesText(t *testing.T) {
	m := exportTestMap()
	m.Nodes["n1"].Text = "A <b> & 'c'"

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, m, FormatSVG))
	assert.Contains(t, buf.String(), "A &lt;b&gt; &amp;")
	assert.NotContains(t, buf.String(), "<b>")
}

func TestExportPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, exportTestMap(), FormatPNG))

	img, err := png.Decode(&buf)
	require.NoError(t, err)

	bounds := img.Bounds()
	// Canvas spans node boxes plus margins
	assert.Equal(t, 460+2*pngMargin, bounds.Dx())
	assert.Equal(t, 172+2*pngMargin, bounds.Dy())
}

func TestExportEmptyMap(t *testing.T) {
	m := &mindmap.Map{
		ID:    "m1",
		Title: "Empty",
		Nodes: map[string]*mindmap.Node{},
		Edges: map[string]*mindmap.Edge{},
	}

	for _, format := range []string{FormatJSON, FormatDOT, FormatSVG, FormatPNG} {
		var buf bytes.Buffer
		assert.NoError(t, Export(&buf, m, format), format)
		assert.NotZero(t, buf.Len(), format)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Export(&buf, exportTestMap(), "pdf"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType(FormatPNG))
	assert.Equal(t, "image/svg+xml", ContentType(FormatSVG))
	assert.Equal(t, "text/vnd.graphviz", ContentType(FormatDOT))
	assert.Equal(t, "application/json", ContentType(FormatJSON))
}

func TestExportPNGTruncatesMultiByteLabels(t *testing.T) {
	m := exportTestMap()
	// narrow box forces truncation inside the multi-byte text
	m.Nodes["n1"].Text = "Überblick über die Reiseplanung"
	m.Nodes["n1"].Width = 60

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, m, FormatPNG))

	_, err := png.Decode(&buf)
	require.NoError(t, err)
}
