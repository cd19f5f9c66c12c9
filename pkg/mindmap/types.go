package mindmap

import (
	"sort"
	"time"
)

// Default node geometry and colors, matching what clients render when a
// node carries no explicit style.
const (
	DefaultNodeWidth  = 160.0
	DefaultNodeHeight = 52.0
	DefaultNodeFill   = "#fffacd"
	DefaultNodeStroke = "#333333"
	DefaultFontSize   = 12
)

// Style holds the visual attributes of a node
type Style struct {
	Fill     string `json:"fill,omitempty"`
	Stroke   string `json:"stroke,omitempty"`
	FontSize int    `json:"fontSize,omitempty"`
}

// Node is a single idea box on a mind map
type Node struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Style  Style   `json:"style,omitzero"`
}

// Center returns the center point of the node's box.
// Edges are drawn between node centers.
func (n *Node) Center() (float64, float64) {
	return n.X + n.Width/2, n.Y + n.Height/2
}

// Edge is an undirected connection between two nodes.
// A and B are node IDs; the pair is unordered.
type Edge struct {
	ID    string `json:"id"`
	A     string `json:"a"`
	B     string `json:"b"`
	Label string `json:"label,omitempty"`
}

// Touches reports whether the edge connects to the given node
func (e *Edge) Touches(nodeID string) bool {
	return e.A == nodeID || e.B == nodeID
}

// Map is a complete mind map owned by a single user
type Map struct {
	ID        string           `json:"id"`
	OwnerID   string           `json:"ownerId"`
	Title     string           `json:"title"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Nodes     map[string]*Node `json:"-"`
	Edges     map[string]*Edge `json:"-"`
}

// MapMeta is the index entry for a map, without its content
type MapMeta struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	NodeCount int       `json:"nodeCount"`
	EdgeCount int       `json:"edgeCount"`
}

// Document is the serialized form of a map: nodes and edges as sorted
// slices rather than lookup maps. This is the wire and disk format.
type Document struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Nodes     []*Node   `json:"nodes"`
	Edges     []*Edge   `json:"edges"`
}

// Meta returns the index entry for the map
func (m *Map) Meta() *MapMeta {
	return &MapMeta{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		NodeCount: len(m.Nodes),
		EdgeCount: len(m.Edges),
	}
}

// Document converts the map to its serialized form with deterministic ordering
func (m *Map) Document() *Document {
	doc := &Document{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Nodes:     make([]*Node, 0, len(m.Nodes)),
		Edges:     make([]*Edge, 0, len(m.Edges)),
	}
	for _, n := range m.Nodes {
		doc.Nodes = append(doc.Nodes, n)
	}
	for _, e := range m.Edges {
		doc.Edges = append(doc.Edges, e)
	}
	sort.Slice(doc.Nodes, func(i, j int) bool { return doc.Nodes[i].ID < doc.Nodes[j].ID })
	sort.Slice(doc.Edges, func(i, j int) bool { return doc.Edges[i].ID < doc.Edges[j].ID })
	return doc
}

// ToMap converts a document back into a runtime map
func (d *Document) ToMap() *Map {
	m := &Map{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Title:     d.Title,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Nodes:     make(map[string]*Node, len(d.Nodes)),
		Edges:     make(map[string]*Edge, len(d.Edges)),
	}
	for _, n := range d.Nodes {
		m.Nodes[n.ID] = n
	}
	for _, e := range d.Edges {
		// Drop edges whose endpoints were lost; the original loader
		// silently skipped dangling references too.
		if _, ok := m.Nodes[e.A]; !ok {
			continue
		}
		if _, ok := m.Nodes[e.B]; !ok {
			continue
		}
		m.Edges[e.ID] = e
	}
	return m
}

// NodeInput describes a node to create
type NodeInput struct {
	Text   string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Style  Style
}

// NodeUpdate describes a partial node update; nil fields are left unchanged
type NodeUpdate struct {
	Text   *string
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
	Style  *Style
}

// Position is a node coordinate pair, used when applying computed layouts
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stats aggregates store-wide counts
type Stats struct {
	Maps  int `json:"maps"`
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}
