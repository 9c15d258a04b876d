package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var claudeModels = map[string]string{
	"haiku":  "claude-haiku-4-5-20251001",
	"sonnet": "claude-sonnet-4-5-20250929",
}

// ClaudeGenerator completes prompts with the Anthropic Messages API.
type ClaudeGenerator struct {
	modelID string
	client  anthropic.Client
}

func NewClaudeGenerator(model, apiKey string, opts ...option.RequestOption) *ClaudeGenerator {
	modelID := claudeModels[model]
	if modelID == "" {
		modelID = claudeModels["haiku"]
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &ClaudeGenerator{modelID: modelID, client: anthropic.NewClient(opts...)}
}

func (g *ClaudeGenerator) Complete(ctx context.Context, p Prompt) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.modelID),
		MaxTokens:   int64(p.MaxTokens),
		Temperature: anthropic.Float(p.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: p.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(p.User)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Claude API error: %w", err)
	}
	return extractText(msg), nil
}

func extractText(msg *anthropic.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "")
}
