package layout

import (
	"math"
	"math/rand"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

// ForceLayout implements force-directed graph layout
type ForceLayout struct {
	config *Config
}

// NewForceLayout creates a new force-directed layout
func NewForceLayout(config *Config) *ForceLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceLayout{config: config}
}

// Compute positions nodes using repulsion between all pairs and
// attraction along edges, cooling over the configured iterations
func (fl *ForceLayout) Compute(m *mindmap.Map) (map[string]mindmap.Position, error) {
	nodeIDs := sortedNodeIDs(m)

	if len(nodeIDs) == 0 {
		return make(map[string]mindmap.Position), nil
	}

	// Single node - center it
	if len(nodeIDs) == 1 {
		return map[string]mindmap.Position{
			nodeIDs[0]: {
				X: fl.config.Width / 2,
				Y: fl.config.Height / 2,
			},
		}, nil
	}

	rng := rand.New(rand.NewSource(fl.config.Seed))

	// Initialize random positions
	positions := make(map[string]mindmap.Position, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		positions[nodeID] = mindmap.Position{
			X: rng.Float64()*(fl.config.Width-2*fl.config.Padding) + fl.config.Padding,
			Y: rng.Float64()*(fl.config.Height-2*fl.config.Padding) + fl.config.Padding,
		}
	}

	adj := neighborSets(m)

	// Optimal pairwise distance
	k := math.Sqrt((fl.config.Width * fl.config.Height) / float64(len(nodeIDs)))
	temperature := fl.config.Width / 10.0

	for iter := 0; iter < fl.config.Iterations; iter++ {
		forces := make(map[string]mindmap.Position, len(nodeIDs))
		for _, nodeID := range nodeIDs {
			forces[nodeID] = mindmap.Position{}
		}

		// Repulsion between all pairs
		for i, id1 := range nodeIDs {
			for j := i + 1; j < len(nodeIDs); j++ {
				id2 := nodeIDs[j]
				dx := positions[id1].X - positions[id2].X
				dy := positions[id1].Y - positions[id2].Y
				dist := math.Sqrt(dx*dx + dy*dy)

				if dist < 0.01 {
					dist = 0.01
				}

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[id1] = mindmap.Position{X: forces[id1].X + fx, Y: forces[id1].Y + fy}
				forces[id2] = mindmap.Position{X: forces[id2].X - fx, Y: forces[id2].Y - fy}
			}
		}

		// Attraction between connected nodes. Neighbors are visited
		// in sorted order so float accumulation is reproducible
		for _, id1 := range nodeIDs {
			for _, id2 := range sortedKeys(adj[id1]) {
				dx := positions[id1].X - positions[id2].X
				dy := positions[id1].Y - positions[id2].Y
				dist := math.Sqrt(dx*dx + dy*dy)

				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[id1] = mindmap.Position{X: forces[id1].X - fx, Y: forces[id1].Y - fy}
			}
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(fl.config.Iterations)
		for _, nodeID := range nodeIDs {
			fx := forces[nodeID].X
			fy := forces[nodeID].Y
			force := math.Sqrt(fx*fx + fy*fy)

			if force > 0 {
				dx := (fx / force) * math.Min(force, temperature) * cool
				dy := (fy / force) * math.Min(force, temperature) * cool

				positions[nodeID] = mindmap.Position{
					X: positions[nodeID].X + dx,
					Y: positions[nodeID].Y + dy,
				}
			}
		}

		temperature *= 0.95
	}

	return normalizePositions(positions, fl.config.Width, fl.config.Height, fl.config.Padding), nil
}
