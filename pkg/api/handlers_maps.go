package api

import (
	"net/http"

	"github.com/dd0wney/mindmapr/pkg/events"
)

// handleMaps serves the map collection: list and create
func (s *Server) handleMaps(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	s.NewMethodRouter(w, r).
		Get(func() { s.listMaps(w, r, claims.UserID) }).
		Post(func() { s.createMap(w, r, claims.UserID) }).
		NotAllowed()
}

func (s *Server) listMaps(w http.ResponseWriter, r *http.Request, ownerID string) {
	metas, err := s.store.ListMaps(r.Context(), ownerID)
	if err != nil {
		s.respondStoreError(w, err, "list maps")
		return
	}
	s.respondJSON(w, http.StatusOK, metas)
}

func (s *Server) createMap(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req MapRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).ValidateMap(&req).RespondError() {
		return
	}

	meta, err := s.store.CreateMap(r.Context(), ownerID, req.Title)
	if err != nil {
		s.respondStoreError(w, err, "create map")
		return
	}

	event := events.NewEvent(events.TypeMapCreated, meta.ID)
	event.Title = meta.Title
	s.broker.Publish(event)

	s.respondJSON(w, http.StatusCreated, meta)
}

// handleMapSubtree dispatches everything under /maps/{id}
func (s *Server) handleMapSubtree(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	segments := splitMapPath(r.URL.Path)
	if len(segments) == 0 {
		s.respondError(w, http.StatusBadRequest, "Map ID required")
		return
	}
	mapID := segments[0]

	switch {
	case len(segments) == 1:
		s.handleMap(w, r, claims.UserID, mapID)
	case len(segments) == 2 && segments[1] == "nodes":
		s.handleNodes(w, r, claims.UserID, mapID)
	case len(segments) == 3 && segments[1] == "nodes":
		s.handleNode(w, r, claims.UserID, mapID, segments[2])
	case len(segments) == 4 && segments[1] == "nodes" && segments[3] == "move":
		s.handleNodeMove(w, r, claims.UserID, mapID, segments[2])
	case len(segments) == 2 && segments[1] == "edges":
		s.handleEdges(w, r, claims.UserID, mapID)
	case len(segments) == 3 && segments[1] == "edges":
		s.handleEdge(w, r, claims.UserID, mapID, segments[2])
	case len(segments) == 2 && segments[1] == "layout":
		s.handleLayout(w, r, claims.UserID, mapID)
	case len(segments) == 2 && segments[1] == "export":
		s.handleExport(w, r, claims.UserID, mapID)
	case len(segments) == 2 && segments[1] == "suggest":
		s.handleSuggest(w, r, claims.UserID, mapID)
	case len(segments) == 2 && segments[1] == "events":
		s.handleEvents(w, r, claims.UserID, mapID)
	default:
		s.respondError(w, http.StatusNotFound, "Unknown resource")
	}
}

// handleMap serves one map: read, rename, delete
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	s.NewMethodRouter(w, r).
		Get(func() { s.getMap(w, r, ownerID, mapID) }).
		Put(func() { s.renameMap(w, r, ownerID, mapID) }).
		Delete(func() { s.deleteMap(w, r, ownerID, mapID) }).
		NotAllowed()
}

func (s *Server) getMap(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	m, err := s.store.GetMap(r.Context(), ownerID, mapID)
	if err != nil {
		s.respondStoreError(w, err, "get map")
		return
	}
	// Reads warm the search index
	s.searchIndex.IndexMap(ownerID, m)
	s.respondJSON(w, http.StatusOK, m.Document())
}

func (s *Server) renameMap(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	var req MapRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).ValidateMap(&req).RespondError() {
		return
	}

	meta, err := s.store.RenameMap(r.Context(), ownerID, mapID, req.Title)
	if err != nil {
		s.respondStoreError(w, err, "rename map")
		return
	}

	s.refreshIndex(r, ownerID, mapID)
	event := events.NewEvent(events.TypeMapRenamed, mapID)
	event.Title = meta.Title
	s.broker.Publish(event)

	s.respondJSON(w, http.StatusOK, meta)
}

func (s *Server) deleteMap(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	if err := s.store.DeleteMap(r.Context(), ownerID, mapID); err != nil {
		s.respondStoreError(w, err, "delete map")
		return
	}

	s.searchIndex.RemoveMap(ownerID, mapID)
	s.broker.Publish(events.NewEvent(events.TypeMapDeleted, mapID))

	s.respondJSON(w, http.StatusNoContent, nil)
}
