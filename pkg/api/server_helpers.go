package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dd0wney/mindmapr/pkg/logging"
	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.Error("failed to encode response", logging.Error(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:     message,
		Timestamp: time.Now().UTC(),
	})
}

// respondStoreError maps store errors onto HTTP statuses. Unknown
// errors are logged in full and reported generically.
func (s *Server) respondStoreError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, mindmap.ErrMapNotFound),
		errors.Is(err, mindmap.ErrNodeNotFound),
		errors.Is(err, mindmap.ErrEdgeNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, mindmap.ErrSelfLoop),
		errors.Is(err, mindmap.ErrDuplicateEdge),
		errors.Is(err, mindmap.ErrEmptyTitle):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("store operation failed",
			logging.Operation(operation), logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, operation+" failed")
	}
}

// refreshIndex reloads a map into the search index after a mutation.
// Indexing failures are logged, never surfaced: search lags rather
// than blocking writes.
func (s *Server) refreshIndex(r *http.Request, ownerID, mapID string) {
	m, err := s.store.GetMap(r.Context(), ownerID, mapID)
	if err != nil {
		s.logger.Warn("failed to refresh search index",
			logging.MapID(mapID), logging.Error(err))
		return
	}
	s.searchIndex.IndexMap(ownerID, m)
}
