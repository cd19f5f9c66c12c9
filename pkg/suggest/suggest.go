package suggest

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

// DefaultCount is the number of suggestions returned when the caller
// does not ask for a specific amount
const DefaultCount = 5

// MaxCount caps a single suggestion request
const MaxCount = 20

// ErrNoFocusNode is returned when the requested focus node does not exist
var ErrNoFocusNode = errors.New("focus node not found in map")

// Suggestion is one proposed child topic
type Suggestion struct {
	Text string `json:"text"`
}

// Provider produces topic suggestions for a map. focusNodeID may be
// empty, in which case suggestions relate to the map as a whole.
type Provider interface {
	Suggest(ctx context.Context, m *mindmap.Map, focusNodeID string, count int) ([]Suggestion, error)
}

// clampCount normalizes a requested suggestion count
func clampCount(count int) int {
	if count <= 0 {
		return DefaultCount
	}
	if count > MaxCount {
		return MaxCount
	}
	return count
}

// mapContext summarizes a map for prompt building: the focus text
// plus existing node texts in stable order
func mapContext(m *mindmap.Map, focusNodeID string) (focus string, existing []string, err error) {
	if focusNodeID != "" {
		node, ok := m.Nodes[focusNodeID]
		if !ok {
			return "", nil, ErrNoFocusNode
		}
		focus = strings.TrimSpace(node.Text)
	}
	if focus == "" {
		focus = strings.TrimSpace(m.Title)
	}

	for _, node := range m.Nodes {
		text := strings.TrimSpace(node.Text)
		if text != "" {
			existing = append(existing, text)
		}
	}
	sort.Strings(existing)
	return focus, existing, nil
}
