package export

import (
	"encoding/json"
	"io"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

// writeJSON emits the map's document form, matching the on-disk layout
func writeJSON(w io.Writer, m *mindmap.Map) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m.Document())
}
