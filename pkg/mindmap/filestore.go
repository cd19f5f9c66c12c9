package mindmap

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/mindmapr/pkg/logging"
)

const filePermissions = 0644

// FileStore keeps all maps in memory and persists each map as a
// snappy-compressed JSON document under <dataDir>/<ownerID>/maps/,
// alongside a per-owner index.json. Every mutation writes through to disk.
type FileStore struct {
	dataDir string
	owners  map[string]*ownerMaps
	mu      sync.RWMutex
	logger  logging.Logger
}

// ownerMaps holds one user's maps
type ownerMaps struct {
	maps map[string]*Map
}

// NewFileStore creates a file-backed store rooted at dataDir and loads
// any previously persisted maps.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	fs := &FileStore{
		dataDir: dataDir,
		owners:  make(map[string]*ownerMaps),
		logger:  logging.With(logging.Component("filestore")),
	}

	if err := fs.loadAll(); err != nil {
		return nil, fmt.Errorf("failed to load maps: %w", err)
	}

	return fs, nil
}

// CreateMap creates an empty map for the owner
func (fs *FileStore) CreateMap(ctx context.Context, ownerID, title string) (*MapMeta, error) {
	if ownerID == "" {
		return nil, ErrEmptyOwner
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	now := time.Now().UTC()
	m := &Map{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		Nodes:     make(map[string]*Node),
		Edges:     make(map[string]*Edge),
	}

	fs.ownerState(ownerID).maps[m.ID] = m

	if err := fs.persistMap(m); err != nil {
		delete(fs.owners[ownerID].maps, m.ID)
		return nil, err
	}
	if err := fs.persistIndex(ownerID); err != nil {
		return nil, err
	}

	fs.logger.Info("map created", logging.MapID(m.ID), logging.UserID(ownerID))
	return m.Meta(), nil
}

// GetMap returns a deep copy of the map so callers cannot mutate store state
func (fs *FileStore) GetMap(ctx context.Context, ownerID, mapID string) (*Map, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	m, err := fs.lookup(ownerID, mapID)
	if err != nil {
		return nil, err
	}
	return copyMap(m), nil
}

// ListMaps returns index entries sorted by most recently updated first,
// matching the ordering of the original map list.
func (fs *FileStore) ListMaps(ctx context.Context, ownerID string) ([]*MapMeta, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	state, ok := fs.owners[ownerID]
	if !ok {
		return []*MapMeta{}, nil
	}

	metas := make([]*MapMeta, 0, len(state.maps))
	for _, m := range state.maps {
		metas = append(metas, m.Meta())
	}
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].UpdatedAt.Equal(metas[j].UpdatedAt) {
			return metas[i].ID < metas[j].ID
		}
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// RenameMap changes a map's title
func (fs *FileStore) RenameMap(ctx context.Context, ownerID, mapID, title string) (*MapMeta, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	m, err := fs.lookup(ownerID, mapID)
	if err != nil {
		return nil, err
	}

	m.Title = title
	m.UpdatedAt = time.Now().UTC()

	if err := fs.persistMap(m); err != nil {
		return nil, err
	}
	if err := fs.persistIndex(ownerID); err != nil {
		return nil, err
	}
	return m.Meta(), nil
}

// DeleteMap removes a map, its document and its index entry
func (fs *FileStore) DeleteMap(ctx context.Context, ownerID, mapID string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := fs.lookup(ownerID, mapID); err != nil {
		return err
	}

	delete(fs.owners[ownerID].maps, mapID)

	if err := os.Remove(fs.mapPath(ownerID, mapID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove map file: %w", err)
	}
	if err := fs.persistIndex(ownerID); err != nil {
		return err
	}

	fs.logger.Info("map deleted", logging.MapID(mapID), logging.UserID(ownerID))
	return nil
}

// AddNode places a new node on the map
func (fs *FileStore) AddNode(ctx context.Context, ownerID, mapID string, input NodeInput) (*Node, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	m, err := fs.lookup(ownerID, mapID)
	if err != nil {
		return nil, err
	}

	input = normalizeNodeInput(input)
	n := &Node{
		ID:     uuid.New().String(),
		Text:   input.Text,
		X:      input.X,
		Y:      input.Y,
		Width:  input.Width,
		Height: input.Height,
		Style:  input.Style,
	}

	m.Nodes[n.ID] = n
	m.UpdatedAt = time.Now().UTC()

	if err := fs.persistMap(m); err != nil {
		delete(m.Nodes, n.ID)
		return nil, err
	}
	node := *n
	return &node, nil
}

// GetNode returns a copy of a single node
func (fs *FileStore) GetNode(ctx context.Context, ownerID, mapID, nodeID string) (*Node, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	m, err := fs.lookup(ownerID, mapID)
	if err != nil {
		return nil, err
	}
	n, ok := m.Nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	node := *n
	return &node, nil
}

// UpdateNode applies a partial update to a node
func (fs *FileStore) UpdateNode(ctx context.Context, ownerID, mapID, nodeID string, update NodeUpdate) (*Node, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	m, err := fs.lookup(ownerID, mapID)
	if err != nil {
		return nil, err
	}
	n, ok := m.Nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}

	prev := *n
	applyNodeUpdate(n, update)
	m.UpdatedAt = time.Now().UTC()

	if err := fs.persistMap(m); err != nil {
		*n = prev
		return nil, err
	}
	node := *n
	return &node, nil
}

// DeleteNode removes a node and every edge touching it
func (fs *FileStore) DeleteNode(ctx context.Context, ownerID, mapID, nodeID string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	m, err := fs.lookup(ownerID, mapID)
	if err != nil {
		return err
	}
	if _, ok := m.Nodes[nodeID]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}

	delete(m.Nodes, nodeID)
	for id, e := range m.Edges {
		if e.Touches(nodeID) {
			delete(m.Edges, id)
		}
	}
	m.UpdatedAt = time.Now().UTC()

	return fs.persistMap(m)
}

// AddEdge connects two existing nodes
func (fs *FileStore) AddEdge(ctx context.Context, ownerID, mapID, a, b, label string) (*Edge, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	m, err := fs.lookup(ownerID, mapID)
	if err != nil {
		return nil, err
	}
	if a == b {
		return nil, ErrSelfLoop
	}
	if _, ok := m.Nodes[a]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, a)
	}
	if _, ok := m.Nodes[b]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, b)
	}
	for _, e := range m.Edges {
		if sameEndpoints(e, a, b) {
			return nil, ErrDuplicateEdge
		}
	}

	e := &Edge{
		ID:    uuid.New().String(),
		A:     a,
		B:     b,
		Label: label,
	}
	m.Edges[e.ID] = e
	m.UpdatedAt = time.Now().UTC()

	if err := fs.persistMap(m); err != nil {
		delete(m.Edges, e.ID)
		return nil, err
	}
	edge := *e
	return &edge, nil
}

// GetEdge returns a copy of a single edge
func (fs *FileStore) GetEdge(ctx context.Context, ownerID, mapID, edgeID string) (*Edge, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	m, err := fs.lookup(ownerID, mapID)
	if err != nil {
		return nil, err
	}
	e, ok := m.Edges[edgeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEdgeNotFound, edgeID)
	}
	edge := *e
	return &edge, nil
}

// DeleteEdge removes a single edge
func (fs *FileStore) DeleteEdge(ctx context.Context, ownerID, mapID, edgeID string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	m, err := fs.lookup(ownerID, mapID)
	if err != nil {
		return err
	}
	if _, ok := m.Edges[edgeID]; !ok {
		return fmt.Errorf("%w: %s", ErrEdgeNotFound, edgeID)
	}

	delete(m.Edges, edgeID)
	m.UpdatedAt = time.Now().UTC()

	return fs.persistMap(m)
}

// ApplyPositions moves several nodes in one write. Position entries for
// unknown nodes are ignored so a stale layout result cannot fail the call.
func (fs *FileStore) ApplyPositions(ctx context.Context, ownerID, mapID string, positions map[string]Position) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	m, err := fs.lookup(ownerID, mapID)
	if err != nil {
		return err
	}

	moved := 0
	for nodeID, pos := range positions {
		if n, ok := m.Nodes[nodeID]; ok {
			n.X = pos.X
			n.Y = pos.Y
			moved++
		}
	}
	if moved == 0 {
		return nil
	}
	m.UpdatedAt = time.Now().UTC()

	return fs.persistMap(m)
}

// Stats returns counts across all owners
func (fs *FileStore) Stats(ctx context.Context) (Stats, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var s Stats
	for _, state := range fs.owners {
		for _, m := range state.maps {
			s.Maps++
			s.Nodes += len(m.Nodes)
			s.Edges += len(m.Edges)
		}
	}
	return s, nil
}

// Close flushes nothing; writes are synchronous
func (fs *FileStore) Close() error {
	return nil
}

// lookup finds a map for an owner. Callers must hold fs.mu.
func (fs *FileStore) lookup(ownerID, mapID string) (*Map, error) {
	state, ok := fs.owners[ownerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMapNotFound, mapID)
	}
	m, ok := state.maps[mapID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMapNotFound, mapID)
	}
	return m, nil
}

// ownerState returns (creating if needed) the owner's map set. Callers
// must hold fs.mu for writing.
func (fs *FileStore) ownerState(ownerID string) *ownerMaps {
	state, ok := fs.owners[ownerID]
	if !ok {
		state = &ownerMaps{maps: make(map[string]*Map)}
		fs.owners[ownerID] = state
	}
	return state
}

// copyMap returns a deep copy of a map
func copyMap(m *Map) *Map {
	out := &Map{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Nodes:     make(map[string]*Node, len(m.Nodes)),
		Edges:     make(map[string]*Edge, len(m.Edges)),
	}
	for id, n := range m.Nodes {
		node := *n
		out.Nodes[id] = &node
	}
	for id, e := range m.Edges {
		edge := *e
		out.Edges[id] = &edge
	}
	return out
}
