package mindmap

import "context"

// Store is the persistence interface for mind maps. All operations are
// scoped to an owner; a map belonging to another user behaves exactly like
// a map that does not exist.
type Store interface {
	// Map lifecycle
	CreateMap(ctx context.Context, ownerID, title string) (*MapMeta, error)
	GetMap(ctx context.Context, ownerID, mapID string) (*Map, error)
	ListMaps(ctx context.Context, ownerID string) ([]*MapMeta, error)
	RenameMap(ctx context.Context, ownerID, mapID, title string) (*MapMeta, error)
	DeleteMap(ctx context.Context, ownerID, mapID string) error

	// Node operations
	AddNode(ctx context.Context, ownerID, mapID string, input NodeInput) (*Node, error)
	GetNode(ctx context.Context, ownerID, mapID, nodeID string) (*Node, error)
	UpdateNode(ctx context.Context, ownerID, mapID, nodeID string, update NodeUpdate) (*Node, error)
	DeleteNode(ctx context.Context, ownerID, mapID, nodeID string) error

	// Edge operations
	AddEdge(ctx context.Context, ownerID, mapID, a, b, label string) (*Edge, error)
	GetEdge(ctx context.Context, ownerID, mapID, edgeID string) (*Edge, error)
	DeleteEdge(ctx context.Context, ownerID, mapID, edgeID string) error

	// ApplyPositions moves several nodes at once (layout results)
	ApplyPositions(ctx context.Context, ownerID, mapID string, positions map[string]Position) error

	// Stats returns store-wide counts
	Stats(ctx context.Context) (Stats, error)

	Close() error
}

// normalizeNodeInput fills in defaults the same way the original canvas
// did when placing a fresh node.
func normalizeNodeInput(input NodeInput) NodeInput {
	if input.Text == "" {
		input.Text = "New Node"
	}
	if input.Width <= 0 {
		input.Width = DefaultNodeWidth
	}
	if input.Height <= 0 {
		input.Height = DefaultNodeHeight
	}
	return input
}

// applyNodeUpdate copies non-nil fields of the update onto the node
func applyNodeUpdate(n *Node, update NodeUpdate) {
	if update.Text != nil {
		n.Text = *update.Text
	}
	if update.X != nil {
		n.X = *update.X
	}
	if update.Y != nil {
		n.Y = *update.Y
	}
	if update.Width != nil && *update.Width > 0 {
		n.Width = *update.Width
	}
	if update.Height != nil && *update.Height > 0 {
		n.Height = *update.Height
	}
	if update.Style != nil {
		n.Style = *update.Style
	}
}

// sameEndpoints reports whether an edge connects the same unordered pair
func sameEndpoints(e *Edge, a, b string) bool {
	return (e.A == a && e.B == b) || (e.A == b && e.B == a)
}

// Interface conformance checks
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*PGStore)(nil)
)

// MoveNode repositions a node without touching its text, size, or style.
// Dragging is the hottest operation a canvas client performs, so it gets
// a dedicated entry point over the partial update.
func MoveNode(ctx context.Context, s Store, ownerID, mapID, nodeID string, x, y float64) (*Node, error) {
	return s.UpdateNode(ctx, ownerID, mapID, nodeID, NodeUpdate{X: &x, Y: &y})
}
