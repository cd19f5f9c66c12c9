package export

import (
	"fmt"
	"io"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

// Supported output formats
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ContentType returns the MIME type for a format
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// Export writes a map to w in the requested format
func Export(w io.Writer, m *mindmap.Map, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, m)
	case FormatDOT:
		return writeDOT(w, m)
	case FormatSVG:
		return writeSVG(w, m)
	case FormatPNG:
		return writePNG(w, m)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}
