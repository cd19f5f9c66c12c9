package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

// Result is a scored node match
type Result struct {
	MapID    string  `json:"mapId"`
	MapTitle string  `json:"mapTitle"`
	NodeID   string  `json:"nodeId"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
}

// docKey identifies one indexed node
type docKey struct {
	mapID  string
	nodeID string
}

// ownerIndex is the inverted index for one owner's maps
type ownerIndex struct {
	// term -> document -> token positions
	postings map[string]map[docKey][]int

	// term -> number of documents containing it
	docFreq map[string]int

	// document -> original node text
	content map[docKey]string

	// document -> map title at index time
	mapTitle map[docKey]string

	totalDocs int
}

// Index provides full-text search over node text, partitioned by owner.
// Writes replace a whole map's documents at once, which keeps the
// index consistent with the write-through store.
type Index struct {
	owners map[string]*ownerIndex
	mu     sync.RWMutex
}

// NewIndex creates an empty search index
func NewIndex() *Index {
	return &Index{owners: make(map[string]*ownerIndex)}
}

// IndexMap replaces all index entries for a map with its current nodes
func (idx *Index) IndexMap(ownerID string, m *mindmap.Map) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	oi := idx.owners[ownerID]
	if oi == nil {
		oi = newOwnerIndex()
		idx.owners[ownerID] = oi
	}

	oi.removeMap(m.ID)
	for _, node := range m.Nodes {
		oi.indexNode(m, node)
	}
}

// RemoveMap drops all index entries for a map
func (idx *Index) RemoveMap(ownerID, mapID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if oi := idx.owners[ownerID]; oi != nil {
		oi.removeMap(mapID)
		if oi.totalDocs == 0 {
			delete(idx.owners, ownerID)
		}
	}
}

// Search runs a multi-word AND query over one owner's maps and returns
// up to limit results ranked by TF-IDF score
func (idx *Index) Search(ownerID, query string, limit int) []Result {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	oi := idx.owners[ownerID]
	if oi == nil {
		return []Result{}
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []Result{}
	}

	// Intersect posting lists across terms
	var candidates map[docKey]bool
	for i, term := range tokens {
		termDocs := make(map[docKey]bool)
		for _, resolved := range oi.resolveTerm(term) {
			for doc := range oi.postings[resolved] {
				termDocs[doc] = true
			}
		}

		if i == 0 {
			candidates = termDocs
			continue
		}
		next := make(map[docKey]bool)
		for doc := range candidates {
			if termDocs[doc] {
				next[doc] = true
			}
		}
		candidates = next
	}

	results := make([]Result, 0, len(candidates))
	for doc := range candidates {
		results = append(results, Result{
			MapID:    doc.mapID,
			MapTitle: oi.mapTitle[doc],
			NodeID:   doc.nodeID,
			Text:     oi.content[doc],
			Score:    oi.score(doc, tokens),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].MapID != results[j].MapID {
			return results[i].MapID < results[j].MapID
		}
		return results[i].NodeID < results[j].NodeID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// DocumentCount returns the number of indexed nodes for an owner
func (idx *Index) DocumentCount(ownerID string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if oi := idx.owners[ownerID]; oi != nil {
		return oi.totalDocs
	}
	return 0
}

func newOwnerIndex() *ownerIndex {
	return &ownerIndex{
		postings: make(map[string]map[docKey][]int),
		docFreq:  make(map[string]int),
		content:  make(map[docKey]string),
		mapTitle: make(map[docKey]string),
	}
}

func (oi *ownerIndex) indexNode(m *mindmap.Map, node *mindmap.Node) {
	text := strings.TrimSpace(node.Text)
	if text == "" {
		return
	}

	doc := docKey{mapID: m.ID, nodeID: node.ID}
	oi.content[doc] = text
	oi.mapTitle[doc] = m.Title

	seen := make(map[string]bool)
	for pos, term := range tokenize(text) {
		if oi.postings[term] == nil {
			oi.postings[term] = make(map[docKey][]int)
		}
		oi.postings[term][doc] = append(oi.postings[term][doc], pos)

		if !seen[term] {
			oi.docFreq[term]++
			seen[term] = true
		}
	}

	oi.totalDocs++
}

func (oi *ownerIndex) removeMap(mapID string) {
	for term, docs := range oi.postings {
		for doc := range docs {
			if doc.mapID != mapID {
				continue
			}
			delete(docs, doc)
			oi.docFreq[term]--
			if oi.docFreq[term] <= 0 {
				delete(oi.docFreq, term)
			}
		}
		if len(docs) == 0 {
			delete(oi.postings, term)
		}
	}
	for doc := range oi.content {
		if doc.mapID == mapID {
			delete(oi.content, doc)
			delete(oi.mapTitle, doc)
			oi.totalDocs--
		}
	}
}

// resolveTerm returns the indexed terms matching a query term. Exact
// matches win; otherwise short edit-distance neighbors are accepted so
// near-miss typing still finds nodes.
func (oi *ownerIndex) resolveTerm(term string) []string {
	if _, ok := oi.postings[term]; ok {
		return []string{term}
	}
	if len(term) < 4 {
		return nil
	}
	var matches []string
	for indexed := range oi.postings {
		if levenshteinDistance(term, indexed) <= 1 {
			matches = append(matches, indexed)
		}
	}
	return matches
}
