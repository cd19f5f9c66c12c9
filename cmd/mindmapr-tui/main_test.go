package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

func TestRefreshLoadsMapList(t *testing.T) {
	store, err := mindmap.NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	meta, err := store.CreateMap(ctx, "alice", "Trip Planning")
	require.NoError(t, err)
	n1, err := store.AddNode(ctx, "alice", meta.ID, mindmap.NodeInput{Text: "Trip"})
	require.NoError(t, err)
	n2, err := store.AddNode(ctx, "alice", meta.ID, mindmap.NodeInput{Text: "Budget"})
	require.NoError(t, err)
	_, err = store.AddEdge(ctx, "alice", meta.ID, n1.ID, n2.ID, "")
	require.NoError(t, err)

	m := initialModel(store, "alice")

	require.Len(t, m.metas, 1)
	assert.Equal(t, meta.ID, m.metas[0].ID)
	assert.Equal(t, "Trip Planning", m.metas[0].Title)

	rows := m.mapTable.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Trip Planning", rows[0][0])
	assert.Equal(t, "2", rows[0][1])
	assert.Equal(t, "1", rows[0][2])
}
