package api

import (
	"net/http"
	"strconv"
)

const defaultSearchLimit = 20

// handleSearch runs a full-text query over the caller's maps
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	s.NewMethodRouter(w, r).
		Get(func() { s.searchNodes(w, r, claims.UserID) }).
		NotAllowed()
}

func (s *Server) searchNodes(w http.ResponseWriter, r *http.Request, ownerID string) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			s.respondError(w, http.StatusBadRequest, "Limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	results := s.searchIndex.Search(ownerID, query, limit)
	s.respondJSON(w, http.StatusOK, SearchResponse{
		Query:   query,
		Results: results,
		Count:   len(results),
	})
}
