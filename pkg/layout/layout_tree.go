package layout

import (
	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

// TreeLayout arranges nodes in levels below a root
type TreeLayout struct {
	config *Config
}

// NewTreeLayout creates a new tree layout
func NewTreeLayout(config *Config) *TreeLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &TreeLayout{config: config}
}

// Compute arranges nodes in BFS levels. Edges are undirected, so the
// root is the node with the most neighbors rather than one with no
// incoming edges. Disconnected nodes land on the last level.
func (tl *TreeLayout) Compute(m *mindmap.Map) (map[string]mindmap.Position, error) {
	nodeIDs := sortedNodeIDs(m)
	positions := make(map[string]mindmap.Position, len(nodeIDs))

	if len(nodeIDs) == 0 {
		return positions, nil
	}

	adj := neighborSets(m)

	// Pick the best-connected node as root, ties broken by ID order
	root := nodeIDs[0]
	for _, nodeID := range nodeIDs {
		if len(adj[nodeID]) > len(adj[root]) {
			root = nodeID
		}
	}

	// Build levels using BFS
	levels := make([][]string, 0)
	visited := map[string]bool{root: true}
	currentLevel := []string{root}

	for len(currentLevel) > 0 {
		levels = append(levels, currentLevel)
		nextLevel := make([]string, 0)

		for _, nodeID := range currentLevel {
			for _, neighbor := range nodeIDs {
				if adj[nodeID][neighbor] && !visited[neighbor] {
					nextLevel = append(nextLevel, neighbor)
					visited[neighbor] = true
				}
			}
		}

		currentLevel = nextLevel
	}

	// Add unvisited nodes to last level
	for _, nodeID := range nodeIDs {
		if !visited[nodeID] {
			levels[len(levels)-1] = append(levels[len(levels)-1], nodeID)
		}
	}

	// Position nodes
	levelHeight := (tl.config.Height - 2*tl.config.Padding) / float64(len(levels))

	for levelIdx, level := range levels {
		y := tl.config.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		levelWidth := tl.config.Width - 2*tl.config.Padding
		spacing := levelWidth / float64(len(level)+1)

		for nodeIdx, nodeID := range level {
			x := tl.config.Padding + spacing*float64(nodeIdx+1)
			positions[nodeID] = mindmap.Position{X: x, Y: y}
		}
	}

	return positions, nil
}
