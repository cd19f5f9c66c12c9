package api

import (
	"net/http"
	"time"

	gql "github.com/dd0wney/mindmapr/pkg/graphql"
)

// handleGraphQL exposes the read-only GraphQL endpoint. Mutations go
// through the REST handlers so the event stream sees every change.
func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	r = r.WithContext(gql.WithOwner(r.Context(), claims.UserID))
	s.graphqlHandler.ServeHTTP(w, r)
}

// handleStats reports aggregate store counts and server uptime
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.getStats(w, r) }).
		NotAllowed()
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.respondStoreError(w, err, "stats")
		return
	}

	if s.metrics != nil {
		s.metrics.UpdateStoreCounts(stats.Maps, stats.Nodes, stats.Edges)
	}

	s.respondJSON(w, http.StatusOK, StatsResponse{
		Maps:   stats.Maps,
		Nodes:  stats.Nodes,
		Edges:  stats.Edges,
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	})
}
