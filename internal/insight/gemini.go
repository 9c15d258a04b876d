package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.5-flash",
	"gemini-pro":   "gemini-2.5-pro",
}

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiGenerator completes prompts with the Gemini generateContent REST API.
type GeminiGenerator struct {
	modelID    string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiGenerator(model, apiKey string) *GeminiGenerator {
	modelID := geminiModels[model]
	if modelID == "" {
		modelID = geminiModels["gemini-flash"]
	}
	return &GeminiGenerator{
		modelID: modelID,
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		httpClient: &http.Client{
			Timeout:   60 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// WithBaseURL points the generator at a different API root.
func (g *GeminiGenerator) WithBaseURL(u string) *GeminiGenerator {
	g.baseURL = u
	return g
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiGenerator) Complete(ctx context.Context, p Prompt) (string, error) {
	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: p.System}}},
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: p.User}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     p.Temperature,
			MaxOutputTokens: p.MaxTokens,
		},
	}
	if p.JSON {
		reqBody.GenerationConfig.ResponseMimeType = "application/json"
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	res, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error: %w", &StatusError{StatusCode: res.StatusCode, Body: string(respBody)})
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
