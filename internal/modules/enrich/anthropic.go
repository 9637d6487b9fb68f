// Package enrich derives summaries and named entities for stored news.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const systemPrompt = `You analyse maritime shipping news. Given a headline and summary,
respond with JSON only, no prose, in this exact shape:
{"summary": "<2-3 sentence summary>",
 "entities": [{"type": "ORG|GPE|PRODUCT", "value": "<entity text>", "score": <0..1>}]}
Only include organisations, places and products actually mentioned.`

// Extraction is the enrichment result for one news item.
type Extraction struct {
	Summary  string
	Entities []ExtractedEntity
}

// ExtractedEntity is one named entity with a confidence score.
type ExtractedEntity struct {
	Type  string  `json:"type"`
	Value string  `json:"value"`
	Score float64 `json:"score"`
}

// Extractor produces an Extraction for a news title and summary.
type Extractor interface {
	Extract(title, summary string) (*Extraction, error)
}

// AnthropicExtractor summarizes and extracts entities with one model call.
type AnthropicExtractor struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropicExtractor creates an extractor backed by the Anthropic API.
func NewAnthropicExtractor(apiKey string) *AnthropicExtractor {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicExtractor{
		client: &client,
		model:  anthropic.ModelClaudeHaiku4_5,
	}
}

// Extract calls the model and parses its JSON response.
func (c *AnthropicExtractor) Extract(title, summary string) (*Extraction, error) {
	userPrompt := fmt.Sprintf("Headline: %s\nSummary: %s", title, summary)

	resp, err := c.client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no response from anthropic")
	}

	content := cleanJSONResponse(resp.Content[0].Text)

	var parsed struct {
		Summary  string            `json:"summary"`
		Entities []ExtractedEntity `json:"entities"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	entities := make([]ExtractedEntity, 0, len(parsed.Entities))
	for _, e := range parsed.Entities {
		if !validEntityType(e.Type) || strings.TrimSpace(e.Value) == "" {
			continue
		}
		entities = append(entities, e)
	}

	return &Extraction{Summary: parsed.Summary, Entities: entities}, nil
}

// validEntityType keeps only the entity classes the linker cares about.
func validEntityType(t string) bool {
	switch strings.ToUpper(t) {
	case "ORG", "GPE", "PRODUCT":
		return true
	}
	return false
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
