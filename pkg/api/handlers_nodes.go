package api

import (
	"net/http"

	"github.com/dd0wney/mindmapr/pkg/events"
	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

// handleNodes serves the node collection of a map
func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	s.NewMethodRouter(w, r).
		Post(func() { s.addNode(w, r, ownerID, mapID) }).
		NotAllowed()
}

func (s *Server) addNode(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	var req NodeRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).ValidateNode(&req).RespondError() {
		return
	}

	input := mindmap.NodeInput{
		Text:   req.Text,
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
	}
	if req.Style != nil {
		input.Style = mindmap.Style{
			Fill:     req.Style.Fill,
			Stroke:   req.Style.Stroke,
			FontSize: req.Style.FontSize,
		}
	}

	node, err := s.store.AddNode(r.Context(), ownerID, mapID, input)
	if err != nil {
		s.respondStoreError(w, err, "add node")
		return
	}

	s.refreshIndex(r, ownerID, mapID)
	s.broker.Publish(events.NodeEvent(events.TypeNodeAdded, mapID, node))

	s.respondJSON(w, http.StatusCreated, node)
}

// handleNode serves one node: read, update, delete
func (s *Server) handleNode(w http.ResponseWriter, r *http.Request, ownerID, mapID, nodeID string) {
	s.NewMethodRouter(w, r).
		Get(func() { s.getNode(w, r, ownerID, mapID, nodeID) }).
		Put(func() { s.updateNode(w, r, ownerID, mapID, nodeID) }).
		Delete(func() { s.deleteNode(w, r, ownerID, mapID, nodeID) }).
		NotAllowed()
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request, ownerID, mapID, nodeID string) {
	node, err := s.store.GetNode(r.Context(), ownerID, mapID, nodeID)
	if err != nil {
		s.respondStoreError(w, err, "get node")
		return
	}
	s.respondJSON(w, http.StatusOK, node)
}

func (s *Server) updateNode(w http.ResponseWriter, r *http.Request, ownerID, mapID, nodeID string) {
	var req NodeUpdateRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).ValidateNodeUpdate(&req).RespondError() {
		return
	}

	update := mindmap.NodeUpdate{
		Text:   req.Text,
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
	}
	if req.Style != nil {
		update.Style = &mindmap.Style{
			Fill:     req.Style.Fill,
			Stroke:   req.Style.Stroke,
			FontSize: req.Style.FontSize,
		}
	}

	node, err := s.store.UpdateNode(r.Context(), ownerID, mapID, nodeID, update)
	if err != nil {
		s.respondStoreError(w, err, "update node")
		return
	}

	s.refreshIndex(r, ownerID, mapID)
	s.broker.Publish(events.NodeEvent(events.TypeNodeUpdated, mapID, node))

	s.respondJSON(w, http.StatusOK, node)
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request, ownerID, mapID, nodeID string) {
	if err := s.store.DeleteNode(r.Context(), ownerID, mapID, nodeID); err != nil {
		s.respondStoreError(w, err, "delete node")
		return
	}

	s.refreshIndex(r, ownerID, mapID)
	event := events.NewEvent(events.TypeNodeDeleted, mapID)
	event.NodeID = nodeID
	s.broker.Publish(event)

	s.respondJSON(w, http.StatusNoContent, nil)
}

// handleNodeMove serves POST /maps/{id}/nodes/{nodeID}/move
func (s *Server) handleNodeMove(w http.ResponseWriter, r *http.Request, ownerID, mapID, nodeID string) {
	s.NewMethodRouter(w, r).
		Post(func() { s.moveNode(w, r, ownerID, mapID, nodeID) }).
		NotAllowed()
}

func (s *Server) moveNode(w http.ResponseWriter, r *http.Request, ownerID, mapID, nodeID string) {
	var req MoveRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).ValidatePosition(req.X, req.Y).RespondError() {
		return
	}

	node, err := mindmap.MoveNode(r.Context(), s.store, ownerID, mapID, nodeID, req.X, req.Y)
	if err != nil {
		s.respondStoreError(w, err, "move node")
		return
	}

	// Text is unchanged, so the search index stays valid
	s.broker.Publish(events.NodeEvent(events.TypeNodeMoved, mapID, node))

	s.respondJSON(w, http.StatusOK, node)
}
