package layout

import (
	"math"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

// CircularLayout arranges nodes in a circle
type CircularLayout struct {
	config *Config
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *Config) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// Compute arranges nodes evenly around a circle
func (cl *CircularLayout) Compute(m *mindmap.Map) (map[string]mindmap.Position, error) {
	nodeIDs := sortedNodeIDs(m)
	positions := make(map[string]mindmap.Position, len(nodeIDs))

	if len(nodeIDs) == 0 {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Min(centerX, centerY) - cl.config.Padding

	angleStep := 2 * math.Pi / float64(len(nodeIDs))

	for i, nodeID := range nodeIDs {
		angle := float64(i) * angleStep
		positions[nodeID] = mindmap.Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions, nil
}
