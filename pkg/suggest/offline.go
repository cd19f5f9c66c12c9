package suggest

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

// offlineTemplates expand a focus topic into related child topics.
// The %s placeholder receives the focus text.
var offlineTemplates = []string{
	"Why %s matters",
	"Next steps for %s",
	"Risks around %s",
	"Resources on %s",
	"Examples of %s",
	"Who is involved in %s",
	"Timeline for %s",
	"Costs of %s",
	"Alternatives to %s",
	"Open questions about %s",
	"History of %s",
	"Measuring %s",
}

// OfflineProvider generates deterministic suggestions without any
// network dependency. Used when no API key is configured, and in tests.
type OfflineProvider struct{}

// NewOfflineProvider creates the offline suggestion provider
func NewOfflineProvider() *OfflineProvider {
	return &OfflineProvider{}
}

// Suggest fills templates with the focus text. Template order rotates
// with a hash of the focus so different topics get different openers,
// while the same topic always gets the same suggestions.
func (p *OfflineProvider) Suggest(_ context.Context, m *mindmap.Map, focusNodeID string, count int) ([]Suggestion, error) {
	count = clampCount(count)

	focus, existing, err := mapContext(m, focusNodeID)
	if err != nil {
		return nil, err
	}
	if focus == "" {
		focus = "this map"
	}

	taken := make(map[string]bool, len(existing))
	for _, text := range existing {
		taken[strings.ToLower(text)] = true
	}

	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(focus)))
	offset := int(h.Sum32()) % len(offlineTemplates)
	if offset < 0 {
		offset += len(offlineTemplates)
	}

	suggestions := make([]Suggestion, 0, count)
	for i := 0; i < len(offlineTemplates) && len(suggestions) < count; i++ {
		template := offlineTemplates[(offset+i)%len(offlineTemplates)]
		text := strings.Replace(template, "%s", focus, 1)
		if taken[strings.ToLower(text)] {
			continue
		}
		suggestions = append(suggestions, Suggestion{Text: text})
	}
	return suggestions, nil
}
