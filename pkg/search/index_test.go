package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

func searchTestMap(id, title string, texts map[string]string) *mindmap.Map {
	m := &mindmap.Map{
		ID:    id,
		Title: title,
		Nodes: make(map[string]*mindmap.Node),
		Edges: make(map[string]*mindmap.Edge),
	}
	for nodeID, text := range texts {
		m.Nodes[nodeID] = &mindmap.Node{ID: nodeID, Text: text}
	}
	return m
}

func TestSearchBasic(t *testing.T) {
	idx := NewIndex()
	idx.IndexMap("alice", searchTestMap("m1", "Trip", map[string]string{
		"n1": "book flights to Lisbon",
		"n2": "reserve hotel",
		"n3": "packing list",
	}))

	results := idx.Search("alice", "hotel", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "m1", results[0].MapID)
	assert.Equal(t, "n2", results[0].NodeID)
	assert.Equal(t, "reserve hotel", results[0].Text)
	assert.Equal(t, "Trip", results[0].MapTitle)
	assert.Greater(t, results[0].Score, 0.0)
}

func TestSearchMultiWordIsAnd(t *testing.T) {
	idx := NewIndex()
	idx.IndexMap("alice", searchTestMap("m1", "Trip", map[string]string{
		"n1": "book flights early",
		"n2": "book hotel room",
		"n3": "early morning run",
	}))

	results := idx.Search("alice", "book early", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "n1", results[0].NodeID)
}

func TestSearchOwnerIsolation(t *testing.T) {
	idx := NewIndex()
	idx.IndexMap("alice", searchTestMap("m1", "Trip", map[string]string{"n1": "secret plans"}))
	idx.IndexMap("bob", searchTestMap("m2", "Work", map[string]string{"n1": "quarterly report"}))

	assert.Empty(t, idx.Search("bob", "secret", 10))
	assert.Len(t, idx.Search("alice", "secret", 10), 1)
}

func TestSearchAcrossMaps(t *testing.T) {
	idx := NewIndex()
	idx.IndexMap("alice", searchTestMap("m1", "Trip", map[string]string{"n1": "budget draft"}))
	idx.IndexMap("alice", searchTestMap("m2", "House", map[string]string{"n1": "budget final"}))

	results := idx.Search("alice", "budget", 10)
	assert.Len(t, results, 2)
}

func TestReindexReplacesOldEntries(t *testing.T) {
	idx := NewIndex()
	idx.IndexMap("alice", searchTestMap("m1", "Trip", map[string]string{"n1": "old idea"}))
	idx.IndexMap("alice", searchTestMap("m1", "Trip", map[string]string{"n1": "new thought"}))

	assert.Empty(t, idx.Search("alice", "old", 10))
	assert.Len(t, idx.Search("alice", "thought", 10), 1)
	assert.Equal(t, 1, idx.DocumentCount("alice"))
}

func TestRemoveMap(t *testing.T) {
	idx := NewIndex()
	idx.IndexMap("alice", searchTestMap("m1", "Trip", map[string]string{"n1": "flights"}))
	idx.RemoveMap("alice", "m1")

	assert.Empty(t, idx.Search("alice", "flights", 10))
	assert.Equal(t, 0, idx.DocumentCount("alice"))
}

func TestFuzzyMatching(t *testing.T) {
	idx := NewIndex()
	idx.IndexMap("alice", searchTestMap("m1", "Trip", map[string]string{"n1": "lisbon itinerary"}))

	// One-character typo still matches terms of length >= 4
	results := idx.Search("alice", "lisbpn", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "n1", results[0].NodeID)

	// Short terms are exact-match only
	assert.Empty(t, idx.Search("alice", "xyz", 10))
}

func TestSearchRanking(t *testing.T) {
	idx := NewIndex()
	idx.IndexMap("alice", searchTestMap("m1", "Trip", map[string]string{
		"n1": "coffee",
		"n2": "coffee coffee coffee",
	}))

	results := idx.Search("alice", "coffee", 10)
	require.Len(t, results, 2)
	assert.Equal(t, "n2", results[0].NodeID, "higher term frequency ranks first")
}

func TestSearchLimit(t *testing.T) {
	idx := NewIndex()
	idx.IndexMap("alice", searchTestMap("m1", "Trip", map[string]string{
		"n1": "task one", "n2": "task two", "n3": "task three",
	}))

	assert.Len(t, idx.Search("alice", "task", 2), 2)
}

func TestEmptyQuery(t *testing.T) {
	idx := NewIndex()
	idx.IndexMap("alice", searchTestMap("m1", "Trip", map[string]string{"n1": "anything"}))

	assert.Empty(t, idx.Search("alice", "", 10))
	assert.Empty(t, idx.Search("alice", "   ", 10))
	assert.Empty(t, idx.Search("nobody", "anything", 10))
}
