package events

import (
	"time"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

// Event types emitted on map topics
const (
	TypeMapCreated    = "map.created"
	TypeMapRenamed    = "map.renamed"
	TypeMapDeleted    = "map.deleted"
	TypeNodeAdded     = "node.added"
	TypeNodeUpdated   = "node.updated"
	TypeNodeMoved     = "node.moved"
	TypeNodeDeleted   = "node.deleted"
	TypeEdgeAdded     = "edge.added"
	TypeEdgeDeleted   = "edge.deleted"
	TypeLayoutApplied = "layout.applied"
)

// Event is a change notification for a map. Node and Edge are set
// for the event types that concern them, nil otherwise.
type Event struct {
	Type      string        `json:"type"`
	MapID     string        `json:"mapId"`
	NodeID    string        `json:"nodeId,omitempty"`
	EdgeID    string        `json:"edgeId,omitempty"`
	Node      *mindmap.Node `json:"node,omitempty"`
	Edge      *mindmap.Edge `json:"edge,omitempty"`
	Title     string        `json:"title,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewEvent builds an event stamped with the current time
func NewEvent(eventType, mapID string) Event {
	return Event{
		Type:      eventType,
		MapID:     mapID,
		Timestamp: time.Now().UTC(),
	}
}

// NodeEvent builds a node change event
func NodeEvent(eventType, mapID string, node *mindmap.Node) Event {
	e := NewEvent(eventType, mapID)
	if node != nil {
		e.NodeID = node.ID
		e.Node = node
	}
	return e
}

// EdgeEvent builds an edge change event
func EdgeEvent(eventType, mapID string, edge *mindmap.Edge) Event {
	e := NewEvent(eventType, mapID)
	if edge != nil {
		e.EdgeID = edge.ID
		e.Edge = edge
	}
	return e
}
