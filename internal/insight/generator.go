package insight

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	defaultAttempts = 3
	initialBackoff  = 1 * time.Second
	backoffMult     = 2
)

// Prompt is one completion request.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	// JSON asks the provider for a JSON object when it supports that mode.
	JSON bool
}

// Generator completes a prompt with a language model.
type Generator interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Keys holds provider credentials. Bedrock uses the AWS default chain.
type Keys struct {
	OpenAI        string
	OpenAIBaseURL string
	Anthropic     string
	Gemini        string
}

// Models lists the model names NewGenerator accepts.
var Models = []string{"gpt-4o-mini", "gpt-3.5-turbo", "haiku", "sonnet", "gemini-flash", "gemini-pro", "nova-lite"}

// NewGenerator returns the generator for a model name. A provider whose key
// is missing yields ErrNotConfigured.
func NewGenerator(ctx context.Context, model string, keys Keys) (Generator, error) {
	switch {
	case strings.HasPrefix(model, "gpt-"):
		if keys.OpenAI == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrNotConfigured)
		}
		return NewOpenAIGenerator(model, keys.OpenAI, keys.OpenAIBaseURL), nil
	case claudeModels[model] != "":
		if keys.Anthropic == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", ErrNotConfigured)
		}
		return NewClaudeGenerator(model, keys.Anthropic), nil
	case geminiModels[model] != "":
		if keys.Gemini == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrNotConfigured)
		}
		return NewGeminiGenerator(model, keys.Gemini), nil
	case novaModels[model] != "":
		g, err := NewNovaGenerator(ctx, model)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown model %q (supported: %s)", model, strings.Join(Models, ", "))
	}
}

// retry runs fn until it succeeds, fails permanently or runs out of attempts,
// doubling the wait between attempts.
func retry(ctx context.Context, attempts int, backoff time.Duration, fn func() (string, error)) (string, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		out, err := fn()
		if err == nil {
			return out, nil
		}
		if permanent(err) {
			return "", err
		}
		lastErr = fmt.Errorf("attempt %d/%d: %w", attempt, attempts, err)

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= time.Duration(backoffMult)
		}
	}
	return "", lastErr
}
