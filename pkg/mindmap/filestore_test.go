package mindmap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { fs.Close() })
	return fs
}

func TestFileStore_CreateAndGetMap(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	meta, err := fs.CreateMap(ctx, "alice", "Project Ideas")
	require.NoError(t, err)
	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, "Project Ideas", meta.Title)
	assert.Equal(t, "alice", meta.OwnerID)

	m, err := fs.GetMap(ctx, "alice", meta.ID)
	require.NoError(t, err)
	assert.Equal(t, meta.ID, m.ID)
	assert.Empty(t, m.Nodes)
	assert.Empty(t, m.Edges)
}

func TestFileStore_CreateMapValidation(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	_, err := fs.CreateMap(ctx, "", "title")
	assert.ErrorIs(t, err, ErrEmptyOwner)

	_, err = fs.CreateMap(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestFileStore_OwnerScoping(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	meta, err := fs.CreateMap(ctx, "alice", "Private")
	require.NoError(t, err)

	// Another user's map behaves like a missing map
	_, err = fs.GetMap(ctx, "bob", meta.ID)
	assert.ErrorIs(t, err, ErrMapNotFound)

	err = fs.DeleteMap(ctx, "bob", meta.ID)
	assert.ErrorIs(t, err, ErrMapNotFound)

	_, err = fs.GetMap(ctx, "alice", meta.ID)
	assert.NoError(t, err)
}

func TestFileStore_ListMapsOrdering(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	first, err := fs.CreateMap(ctx, "alice", "first")
	require.NoError(t, err)
	second, err := fs.CreateMap(ctx, "alice", "second")
	require.NoError(t, err)

	// Touch the first map so it becomes the most recently updated
	_, err = fs.AddNode(ctx, "alice", first.ID, NodeInput{Text: "hello"})
	require.NoError(t, err)

	metas, err := fs.ListMaps(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, first.ID, metas[0].ID)
	assert.Equal(t, second.ID, metas[1].ID)
	assert.Equal(t, 1, metas[0].NodeCount)
}

func TestFileStore_NodeLifecycle(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	meta, err := fs.CreateMap(ctx, "alice", "nodes")
	require.NoError(t, err)

	n, err := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "root", X: 100, Y: 50})
	require.NoError(t, err)
	assert.Equal(t, "root", n.Text)
	assert.Equal(t, DefaultNodeWidth, n.Width)
	assert.Equal(t, DefaultNodeHeight, n.Height)

	// Default text mirrors the original's fresh-node placeholder
	blank, err := fs.AddNode(ctx, "alice", meta.ID, NodeInput{})
	require.NoError(t, err)
	assert.Equal(t, "New Node", blank.Text)

	newText := "renamed"
	newX := 200.0
	updated, err := fs.UpdateNode(ctx, "alice", meta.ID, n.ID, NodeUpdate{Text: &newText, X: &newX})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Text)
	assert.Equal(t, 200.0, updated.X)
	assert.Equal(t, 50.0, updated.Y)

	require.NoError(t, fs.DeleteNode(ctx, "alice", meta.ID, n.ID))
	_, err = fs.GetNode(ctx, "alice", meta.ID, n.ID)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestFileStore_EdgeInvariants(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	meta, err := fs.CreateMap(ctx, "alice", "edges")
	require.NoError(t, err)

	a, err := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "a"})
	require.NoError(t, err)
	b, err := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "b"})
	require.NoError(t, err)

	// Self loops are rejected
	_, err = fs.AddEdge(ctx, "alice", meta.ID, a.ID, a.ID, "")
	assert.ErrorIs(t, err, ErrSelfLoop)

	// Unknown endpoint is rejected
	_, err = fs.AddEdge(ctx, "alice", meta.ID, a.ID, "missing", "")
	assert.ErrorIs(t, err, ErrNodeNotFound)

	e, err := fs.AddEdge(ctx, "alice", meta.ID, a.ID, b.ID, "relates")
	require.NoError(t, err)
	assert.Equal(t, "relates", e.Label)

	// The pair is unordered: b->a duplicates a->b
	_, err = fs.AddEdge(ctx, "alice", meta.ID, b.ID, a.ID, "")
	assert.ErrorIs(t, err, ErrDuplicateEdge)
}

func TestFileStore_DeleteNodeCascades(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	meta, err := fs.CreateMap(ctx, "alice", "cascade")
	require.NoError(t, err)

	a, _ := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "a"})
	b, _ := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "b"})
	c, _ := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "c"})

	ab, err := fs.AddEdge(ctx, "alice", meta.ID, a.ID, b.ID, "")
	require.NoError(t, err)
	bc, err := fs.AddEdge(ctx, "alice", meta.ID, b.ID, c.ID, "")
	require.NoError(t, err)

	require.NoError(t, fs.DeleteNode(ctx, "alice", meta.ID, b.ID))

	_, err = fs.GetEdge(ctx, "alice", meta.ID, ab.ID)
	assert.ErrorIs(t, err, ErrEdgeNotFound)
	_, err = fs.GetEdge(ctx, "alice", meta.ID, bc.ID)
	assert.ErrorIs(t, err, ErrEdgeNotFound)

	// Untouched nodes survive
	_, err = fs.GetNode(ctx, "alice", meta.ID, a.ID)
	assert.NoError(t, err)
}

func TestFileStore_ApplyPositions(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	meta, _ := fs.CreateMap(ctx, "alice", "layout")
	a, _ := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "a"})
	b, _ := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "b"})

	err := fs.ApplyPositions(ctx, "alice", meta.ID, map[string]Position{
		a.ID:      {X: 10, Y: 20},
		b.ID:      {X: 30, Y: 40},
		"unknown": {X: 99, Y: 99},
	})
	require.NoError(t, err)

	got, err := fs.GetNode(ctx, "alice", meta.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.X)
	assert.Equal(t, 20.0, got.Y)
}

func TestFileStore_PersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	meta, err := fs.CreateMap(ctx, "alice", "durable")
	require.NoError(t, err)
	a, err := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "idea", X: 5, Y: 7})
	require.NoError(t, err)
	b, err := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "detail"})
	require.NoError(t, err)
	_, err = fs.AddEdge(ctx, "alice", meta.ID, a.ID, b.ID, "expands")
	require.NoError(t, err)
	require.NoError(t, fs.Close())

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	m, err := reopened.GetMap(ctx, "alice", meta.ID)
	require.NoError(t, err)
	assert.Equal(t, "durable", m.Title)
	assert.Len(t, m.Nodes, 2)
	assert.Len(t, m.Edges, 1)
	assert.Equal(t, "idea", m.Nodes[a.ID].Text)
	assert.Equal(t, 5.0, m.Nodes[a.ID].X)
}

func TestFileStore_GetMapReturnsCopy(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	meta, _ := fs.CreateMap(ctx, "alice", "copy")
	n, _ := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "original"})

	m, err := fs.GetMap(ctx, "alice", meta.ID)
	require.NoError(t, err)
	m.Nodes[n.ID].Text = "mutated"

	fresh, err := fs.GetNode(ctx, "alice", meta.ID, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", fresh.Text)
}

func TestFileStore_Stats(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	meta, _ := fs.CreateMap(ctx, "alice", "stats")
	a, _ := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "a"})
	b, _ := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "b"})
	fs.AddEdge(ctx, "alice", meta.ID, a.ID, b.ID, "")
	fs.CreateMap(ctx, "bob", "other")

	stats, err := fs.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Maps: 2, Nodes: 2, Edges: 1}, stats)
}

func TestFileStore_FailedMutationLeavesUpdatedAt(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	meta, _ := fs.CreateMap(ctx, "alice", "timestamps")
	a, _ := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "a"})
	b, _ := fs.AddNode(ctx, "alice", meta.ID, NodeInput{Text: "b"})
	_, err := fs.AddEdge(ctx, "alice", meta.ID, a.ID, b.ID, "")
	require.NoError(t, err)

	before, err := fs.GetMap(ctx, "alice", meta.ID)
	require.NoError(t, err)

	require.ErrorIs(t, fs.DeleteNode(ctx, "alice", meta.ID, "missing"), ErrNodeNotFound)
	require.ErrorIs(t, fs.DeleteEdge(ctx, "alice", meta.ID, "missing"), ErrEdgeNotFound)
	_, err = fs.AddEdge(ctx, "alice", meta.ID, a.ID, b.ID, "")
	require.ErrorIs(t, err, ErrDuplicateEdge)
	_, err = fs.AddEdge(ctx, "alice", meta.ID, a.ID, a.ID, "")
	require.ErrorIs(t, err, ErrSelfLoop)

	after, err := fs.GetMap(ctx, "alice", meta.ID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.Equal(before.UpdatedAt),
		"rejected mutations must not bump the map timestamp")
}
