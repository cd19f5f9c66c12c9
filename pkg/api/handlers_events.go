package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dd0wney/mindmapr/pkg/logging"
)

// handleEvents streams map change events over Server-Sent Events.
// The connection stays open until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, ownerID, mapID string) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Verify the map exists and belongs to the caller before
	// holding a connection open
	if _, err := s.store.GetMap(r.Context(), ownerID, mapID); err != nil {
		s.respondStoreError(w, err, "get map")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	sub, err := s.broker.Subscribe(r.Context(), mapID)
	if err != nil {
		s.respondError(w, http.StatusServiceUnavailable, "Event stream unavailable")
		return
	}
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, ": connected to map %s\n\n", mapID)
	flusher.Flush()

	for event := range sub.Channel() {
		data, err := json.Marshal(event)
		if err != nil {
			s.logger.Warn("failed to encode event",
				logging.MapID(mapID), logging.Error(err))
			continue
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
		flusher.Flush()
	}
}
