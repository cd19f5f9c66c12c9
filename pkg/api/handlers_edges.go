package api

import (
	"net/http"

	"github.com/dd0wney/mindmapr/pkg/events"
)

// handleEdges serves the edge collection of a map
func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	s.NewMethodRouter(w, r).
		Post(func() { s.addEdge(w, r, ownerID, mapID) }).
		NotAllowed()
}

func (s *Server) addEdge(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	var req EdgeRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).ValidateEdge(&req).RespondError() {
		return
	}

	edge, err := s.store.AddEdge(r.Context(), ownerID, mapID, req.A, req.B, req.Label)
	if err != nil {
		s.respondStoreError(w, err, "add edge")
		return
	}

	s.broker.Publish(events.EdgeEvent(events.TypeEdgeAdded, mapID, edge))

	s.respondJSON(w, http.StatusCreated, edge)
}

// handleEdge serves one edge: read and delete. Edges carry no mutable
// state beyond their label, so there is no update.
func (s *Server) handleEdge(w http.ResponseWriter, r *http.Request, ownerID, mapID, edgeID string) {
	s.NewMethodRouter(w, r).
		Get(func() { s.getEdge(w, r, ownerID, mapID, edgeID) }).
		Delete(func() { s.deleteEdge(w, r, ownerID, mapID, edgeID) }).
		NotAllowed()
}

func (s *Server) getEdge(w http.ResponseWriter, r *http.Request, ownerID, mapID, edgeID string) {
	edge, err := s.store.GetEdge(r.Context(), ownerID, mapID, edgeID)
	if err != nil {
		s.respondStoreError(w, err, "get edge")
		return
	}
	s.respondJSON(w, http.StatusOK, edge)
}

func (s *Server) deleteEdge(w http.ResponseWriter, r *http.Request, ownerID, mapID, edgeID string) {
	if err := s.store.DeleteEdge(r.Context(), ownerID, mapID, edgeID); err != nil {
		s.respondStoreError(w, err, "delete edge")
		return
	}

	event := events.NewEvent(events.TypeEdgeDeleted, mapID)
	event.EdgeID = edgeID
	s.broker.Publish(event)

	s.respondJSON(w, http.StatusNoContent, nil)
}
