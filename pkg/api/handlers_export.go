package api

import (
	"fmt"
	"net/http"

	"github.com/dd0wney/mindmapr/pkg/export"
)

// handleExport renders a map in the requested format
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	s.NewMethodRouter(w, r).
		Get(func() { s.exportMap(w, r, ownerID, mapID) }).
		NotAllowed()
}

func (s *Server) exportMap(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatJSON
	}

	m, err := s.store.GetMap(r.Context(), ownerID, mapID)
	if err != nil {
		s.respondStoreError(w, err, "get map")
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportFilename(m.Title, format)))

	if err := export.Export(w, m, format); err != nil {
		// Headers may already be sent; report what we can
		s.respondError(w, http.StatusBadRequest, err.Error())
	}
}

func exportFilename(title, format string) string {
	if title == "" {
		title = "mindmap"
	}
	return title + "." + format
}
