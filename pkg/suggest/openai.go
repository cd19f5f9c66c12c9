package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dd0wney/mindmapr/pkg/logging"
	"github.com/dd0wney/mindmapr/pkg/mindmap"
)

const defaultCompletionsURL = "https://api.openai.com/v1/chat/completions"

// OpenAIConfig configures the chat-completions suggestion provider
type OpenAIConfig struct {
	BaseURL    string // Completions endpoint, defaults to the OpenAI API
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// OpenAIProvider asks a chat-completions endpoint for child topics
type OpenAIProvider struct {
	cfg    OpenAIConfig
	logger logging.Logger
}

// NewOpenAIProvider builds a provider against an OpenAI-compatible API
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultCompletionsURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &OpenAIProvider{cfg: cfg, logger: logging.DefaultLogger()}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Suggest prompts the model with the map's topics and parses the
// returned lines as suggestions
func (p *OpenAIProvider) Suggest(ctx context.Context, m *mindmap.Map, focusNodeID string, count int) ([]Suggestion, error) {
	count = clampCount(count)

	focus, existing, err := mapContext(m, focusNodeID)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(chatRequest{
		Model:       p.cfg.Model,
		Temperature: 0.8,
		Messages: []chatMessage{
			{Role: "system", Content: "You help users grow mind maps. Reply with one short topic per line, no numbering, no commentary."},
			{Role: "user", Content: buildPrompt(focus, existing, count)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode suggestion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build suggestion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	start := time.Now()
	resp, err := p.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggestion endpoint returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("suggestion endpoint error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("suggestion endpoint returned no choices")
	}

	suggestions := parseSuggestionLines(parsed.Choices[0].Message.Content, count)

	p.logger.Debug("suggestions generated",
		logging.MapID(m.ID),
		logging.Count(len(suggestions)),
		logging.Latency(time.Since(start)))

	return suggestions, nil
}

// buildPrompt describes the map and asks for count new topics
func buildPrompt(focus string, existing []string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d new child topics for the mind map topic %q.\n", count, focus)
	if len(existing) > 0 {
		b.WriteString("Topics already on the map:\n")
		for _, text := range existing {
			fmt.Fprintf(&b, "- %s\n", text)
		}
		b.WriteString("Do not repeat them.\n")
	}
	return b.String()
}

// parseSuggestionLines extracts up to count non-empty lines, stripping
// list markers models tend to add anyway
func parseSuggestionLines(content string, count int) []Suggestion {
	suggestions := make([]Suggestion, 0, count)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. ")
		line = strings.Trim(line, `"`)
		if line == "" {
			continue
		}
		suggestions = append(suggestions, Suggestion{Text: line})
		if len(suggestions) == count {
			break
		}
	}
	return suggestions
}
