package api

import (
	"time"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
	"github.com/dd0wney/mindmapr/pkg/search"
	"github.com/dd0wney/mindmapr/pkg/suggest"
)

// MapRequest creates or renames a map
type MapRequest struct {
	Title string `json:"title"`
}

// NodeRequest creates a node
type NodeRequest struct {
	Text   string        `json:"text"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Width  float64       `json:"width,omitempty"`
	Height float64       `json:"height,omitempty"`
	Style  *StyleRequest `json:"style,omitempty"`
}

// NodeUpdateRequest carries the fields to change on a node.
// Absent fields are left untouched.
type NodeUpdateRequest struct {
	Text   *string       `json:"text,omitempty"`
	X      *float64      `json:"x,omitempty"`
	Y      *float64      `json:"y,omitempty"`
	Width  *float64      `json:"width,omitempty"`
	Height *float64      `json:"height,omitempty"`
	Style  *StyleRequest `json:"style,omitempty"`
}

// StyleRequest carries node styling
type StyleRequest struct {
	Fill     string `json:"fill,omitempty"`
	Stroke   string `json:"stroke,omitempty"`
	FontSize int    `json:"fontSize,omitempty"`
}

// MoveRequest repositions a single node
type MoveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EdgeRequest connects two nodes
type EdgeRequest struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Label string `json:"label,omitempty"`
}

// LayoutRequest applies a layout algorithm to a map
type LayoutRequest struct {
	Algorithm string  `json:"algorithm"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
}

// LayoutResponse returns the new node positions
type LayoutResponse struct {
	Algorithm string                      `json:"algorithm"`
	Positions map[string]mindmap.Position `json:"positions"`
}

// SuggestRequest asks for topic suggestions
type SuggestRequest struct {
	NodeID string `json:"nodeId,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// SuggestResponse returns generated suggestions
type SuggestResponse struct {
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

// SearchResponse returns ranked node matches
type SearchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
	Count   int             `json:"count"`
}

// StatsResponse reports store totals
type StatsResponse struct {
	Maps   int    `json:"maps"`
	Nodes  int    `json:"nodes"`
	Edges  int    `json:"edges"`
	Uptime string `json:"uptime"`
}

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}
