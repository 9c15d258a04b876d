package insight

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// OpenAIGenerator completes prompts with the OpenAI chat API.
type OpenAIGenerator struct {
	model  string
	client *openai.Client
}

// NewOpenAIGenerator creates an OpenAI generator. baseURL overrides the API
// root, for OpenAI-compatible gateways.
func NewOpenAIGenerator(model, apiKey, baseURL string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{
		Timeout:   60 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return &OpenAIGenerator{model: model, client: openai.NewClientWithConfig(cfg)}
}

func (g *OpenAIGenerator) Complete(ctx context.Context, p Prompt) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   p.MaxTokens,
		Temperature: float32(p.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
	}
	if p.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
