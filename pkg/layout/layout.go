package layout

import (
	"fmt"
	"sort"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

// Algorithm names accepted by New
const (
	AlgorithmForce    = "force"
	AlgorithmCircular = "circular"
	AlgorithmTree     = "tree"
)

// Config configures layout parameters
type Config struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       int64   // Seed for algorithms with random initialization
}

// DefaultConfig returns a config sized for a typical canvas
func DefaultConfig() *Config {
	return &Config{
		Width:      1200,
		Height:     800,
		Iterations: 50,
		Padding:    60,
	}
}

// Layout computes node positions for a map
type Layout interface {
	Compute(m *mindmap.Map) (map[string]mindmap.Position, error)
}

// New returns the layout implementation for an algorithm name
func New(algorithm string, config *Config) (Layout, error) {
	if config == nil {
		config = DefaultConfig()
	}
	switch algorithm {
	case AlgorithmForce:
		return NewForceLayout(config), nil
	case AlgorithmCircular:
		return NewCircularLayout(config), nil
	case AlgorithmTree:
		return NewTreeLayout(config), nil
	default:
		return nil, fmt.Errorf("unknown layout algorithm: %s", algorithm)
	}
}

// sortedNodeIDs returns the map's node IDs in stable order
func sortedNodeIDs(m *mindmap.Map) []string {
	ids := make([]string, 0, len(m.Nodes))
	for id := range m.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// neighborSets builds an undirected adjacency map
func neighborSets(m *mindmap.Map) map[string]map[string]bool {
	adj := make(map[string]map[string]bool, len(m.Nodes))
	for id := range m.Nodes {
		adj[id] = make(map[string]bool)
	}
	for _, edge := range m.Edges {
		if _, ok := adj[edge.A]; !ok {
			continue
		}
		if _, ok := adj[edge.B]; !ok {
			continue
		}
		adj[edge.A][edge.B] = true
		adj[edge.B][edge.A] = true
	}
	return adj
}

// sortedKeys returns a set's members in stable order
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
