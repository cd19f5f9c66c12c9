package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

func newTestSchema(t *testing.T) (*mindmap.FileStore, Handler) {
	t.Helper()

	store, err := mindmap.NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	schema, err := NewSchema(store)
	require.NoError(t, err)
	return store, Handler{schema: schema}
}

func execute(t *testing.T, h Handler, ownerID, query string) Response {
	t.Helper()

	body, err := json.Marshal(Request{Query: query})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req = req.WithContext(WithOwner(context.Background(), ownerID))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthQuery(t *testing.T) {
	_, h := newTestSchema(t)

	resp := execute(t, h, "alice", `{ health }`)
	require.Empty(t, resp.Errors)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "ok", data["health"])
}

func TestMapsQuery(t *testing.T) {
	store, h := newTestSchema(t)

	ctx := context.Background()
	meta, err := store.CreateMap(ctx, "alice", "Trip")
	require.NoError(t, err)
	_, err = store.AddNode(ctx, "alice", meta.ID, mindmap.NodeInput{Text: "flights"})
	require.NoError(t, err)

	resp := execute(t, h, "alice", `{ maps { id title nodeCount } }`)
	require.Empty(t, resp.Errors)

	maps := resp.Data.(map[string]any)["maps"].([]any)
	require.Len(t, maps, 1)
	entry := maps[0].(map[string]any)
	assert.Equal(t, meta.ID, entry["id"])
	assert.Equal(t, "Trip", entry["title"])
	assert.Equal(t, float64(1), entry["nodeCount"])
}

func TestMapQueryWithNodesAndEdges(t *testing.T) {
	store, h := newTestSchema(t)

	ctx := context.Background()
	meta, err := store.CreateMap(ctx, "alice", "Trip")
	require.NoError(t, err)
	n1, err := store.AddNode(ctx, "alice", meta.ID, mindmap.NodeInput{Text: "flights"})
	require.NoError(t, err)
	n2, err := store.AddNode(ctx, "alice", meta.ID, mindmap.NodeInput{Text: "hotels"})
	require.NoError(t, err)
	_, err = store.AddEdge(ctx, "alice", meta.ID, n1.ID, n2.ID, "")
	require.NoError(t, err)

	resp := execute(t, h, "alice",
		`{ map(id: "`+meta.ID+`") { title nodes { id text fill stroke } edges { a b } } }`)
	require.Empty(t, resp.Errors)

	m := resp.Data.(map[string]any)["map"].(map[string]any)
	assert.Equal(t, "Trip", m["title"])
	assert.Len(t, m["nodes"].([]any), 2)
	assert.Len(t, m["edges"].([]any), 1)

	node := m["nodes"].([]any)[0].(map[string]any)
	assert.Equal(t, mindmap.DefaultNodeFill, node["fill"])
	assert.Equal(t, mindmap.DefaultNodeStroke, node["stroke"])
}

func TestOwnerScoping(t *testing.T) {
	store, h := newTestSchema(t)

	ctx := context.Background()
	meta, err := store.CreateMap(ctx, "alice", "Private")
	require.NoError(t, err)

	resp := execute(t, h, "bob", `{ map(id: "`+meta.ID+`") { title } }`)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "not found")
}

func TestMissingOwner(t *testing.T) {
	_, h := newTestSchema(t)

	body, _ := json.Marshal(Request{Query: `{ maps { id } }`})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Errors)
}

func TestMethodNotAllowed(t *testing.T) {
	_, h := newTestSchema(t)

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
