package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dd0wney/mindmapr/pkg/suggest"
)

// handleSuggest generates child topic suggestions for a map
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	s.NewMethodRouter(w, r).
		Post(func() { s.suggestTopics(w, r, ownerID, mapID) }).
		NotAllowed()
}

func (s *Server) suggestTopics(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	var req SuggestRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).RespondError() {
		return
	}

	m, err := s.store.GetMap(r.Context(), ownerID, mapID)
	if err != nil {
		s.respondStoreError(w, err, "get map")
		return
	}

	start := time.Now()
	suggestions, err := s.suggestProvider.Suggest(r.Context(), m, req.NodeID, req.Count)
	providerName := providerLabel(s.suggestProvider)

	if err != nil {
		s.metrics.RecordSuggestRequest(providerName, "failure", time.Since(start))
		if errors.Is(err, suggest.ErrNoFocusNode) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondStoreError(w, err, "generate suggestions")
		return
	}
	s.metrics.RecordSuggestRequest(providerName, "success", time.Since(start))

	s.respondJSON(w, http.StatusOK, SuggestResponse{Suggestions: suggestions})
}

func providerLabel(p suggest.Provider) string {
	switch p.(type) {
	case *suggest.OpenAIProvider:
		return "openai"
	case *suggest.OfflineProvider:
		return "offline"
	default:
		return "custom"
	}
}
