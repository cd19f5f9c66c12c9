package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dd0wney/mindmapr/pkg/validation"
)

// requestDecoder decodes and validates request bodies.
// It provides a fluent interface for common request handling patterns.
type requestDecoder struct {
	r          *http.Request
	w          http.ResponseWriter
	server     *Server
	err        error
	statusCode int
}

// NewRequestDecoder creates a new request decoder for the given request.
func (s *Server) NewRequestDecoder(w http.ResponseWriter, r *http.Request) *requestDecoder {
	return &requestDecoder{
		r:      r,
		w:      w,
		server: s,
	}
}

// DecodeJSON decodes the request body into the provided struct.
// Returns the decoder for chaining.
func (rd *requestDecoder) DecodeJSON(v any) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := json.NewDecoder(rd.r.Body).Decode(v); err != nil {
		rd.err = fmt.Errorf("invalid request body: %w", err)
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// ValidateMap validates a map create/rename request.
func (rd *requestDecoder) ValidateMap(req *MapRequest) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := validation.ValidateMapRequest(&validation.MapRequest{Title: req.Title}); err != nil {
		rd.err = err
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// ValidateNode validates a node creation request.
func (rd *requestDecoder) ValidateNode(req *NodeRequest) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	validationReq := validation.NodeRequest{
		Text:   req.Text,
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
	}
	if req.Style != nil {
		validationReq.Style = &validation.StyleRequest{
			Fill:     req.Style.Fill,
			Stroke:   req.Style.Stroke,
			FontSize: req.Style.FontSize,
		}
	}
	if err := validation.ValidateNodeRequest(&validationReq); err != nil {
		rd.err = err
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// ValidateNodeUpdate validates a partial node update.
func (rd *requestDecoder) ValidateNodeUpdate(req *NodeUpdateRequest) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	// Validate only the fields being changed
	validationReq := validation.NodeRequest{}
	if req.Text != nil {
		validationReq.Text = *req.Text
	}
	if req.X != nil {
		validationReq.X = *req.X
	}
	if req.Y != nil {
		validationReq.Y = *req.Y
	}
	if req.Width != nil {
		validationReq.Width = *req.Width
	}
	if req.Height != nil {
		validationReq.Height = *req.Height
	}
	if req.Style != nil {
		validationReq.Style = &validation.StyleRequest{
			Fill:     req.Style.Fill,
			Stroke:   req.Style.Stroke,
			FontSize: req.Style.FontSize,
		}
	}
	if err := validation.ValidateNodeRequest(&validationReq); err != nil {
		rd.err = err
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// ValidatePosition validates a coordinate pair from a move request.
func (rd *requestDecoder) ValidatePosition(x, y float64) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := validation.ValidatePosition(x, y); err != nil {
		rd.err = err
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// ValidateEdge validates an edge creation request.
func (rd *requestDecoder) ValidateEdge(req *EdgeRequest) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	validationReq := validation.EdgeRequest{
		A:     req.A,
		B:     req.B,
		Label: req.Label,
	}
	if err := validation.ValidateEdgeRequest(&validationReq); err != nil {
		rd.err = err
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// RespondError sends the error response and returns true if there was an error.
func (rd *requestDecoder) RespondError() bool {
	if rd.err == nil {
		return false
	}
	rd.server.respondError(rd.w, rd.statusCode, rd.err.Error())
	return true
}

// splitMapPath splits the path below /maps/ into its segments.
// "/maps/m1/nodes/n2" yields ["m1", "nodes", "n2"].
func splitMapPath(path string) []string {
	trimmed := strings.Trim(strings.TrimPrefix(path, "/maps/"), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// methodRouter routes requests based on HTTP method.
// Provides a cleaner alternative to switch statements for method routing.
type methodRouter struct {
	w       http.ResponseWriter
	r       *http.Request
	server  *Server
	handled bool
}

// NewMethodRouter creates a new method router.
func (s *Server) NewMethodRouter(w http.ResponseWriter, r *http.Request) *methodRouter {
	return &methodRouter{
		w:      w,
		r:      r,
		server: s,
	}
}

// Get handles GET requests with the provided handler.
func (mr *methodRouter) Get(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodGet {
		handler()
		mr.handled = true
	}
	return mr
}

// Post handles POST requests with the provided handler.
func (mr *methodRouter) Post(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodPost {
		handler()
		mr.handled = true
	}
	return mr
}

// Put handles PUT requests with the provided handler.
func (mr *methodRouter) Put(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodPut {
		handler()
		mr.handled = true
	}
	return mr
}

// Delete handles DELETE requests with the provided handler.
func (mr *methodRouter) Delete(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodDelete {
		handler()
		mr.handled = true
	}
	return mr
}

// NotAllowed sends a 405 response if no method matched.
func (mr *methodRouter) NotAllowed() {
	if !mr.handled {
		mr.server.respondError(mr.w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
