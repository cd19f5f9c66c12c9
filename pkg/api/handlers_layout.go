package api

import (
	"net/http"

	"github.com/dd0wney/mindmapr/pkg/events"
	"github.com/dd0wney/mindmapr/pkg/layout"
)

// handleLayout recomputes node positions with the requested algorithm
// and persists them
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	s.NewMethodRouter(w, r).
		Post(func() { s.applyLayout(w, r, ownerID, mapID) }).
		NotAllowed()
}

func (s *Server) applyLayout(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	var req LayoutRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).RespondError() {
		return
	}

	config := layout.DefaultConfig()
	if req.Width > 0 {
		config.Width = req.Width
	}
	if req.Height > 0 {
		config.Height = req.Height
	}

	algo, err := layout.New(req.Algorithm, config)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := s.store.GetMap(r.Context(), ownerID, mapID)
	if err != nil {
		s.respondStoreError(w, err, "get map")
		return
	}

	positions, err := algo.Compute(m)
	if err != nil {
		s.respondStoreError(w, err, "compute layout")
		return
	}

	if err := s.store.ApplyPositions(r.Context(), ownerID, mapID, positions); err != nil {
		s.respondStoreError(w, err, "apply layout")
		return
	}

	s.broker.Publish(events.NewEvent(events.TypeLayoutApplied, mapID))

	s.respondJSON(w, http.StatusOK, LayoutResponse{
		Algorithm: req.Algorithm,
		Positions: positions,
	})
}
