package tone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// AdjustRequest is the wire body of the tone-adjust endpoint.
type AdjustRequest struct {
	IkigaiText  string `json:"ikigaiText"`
	HeaderText  string `json:"headerText"`
	TargetVoice string `json:"targetVoice"`
}

// AdjustResponse is the success body of the tone-adjust endpoint.
type AdjustResponse struct {
	AdjustedText string `json:"adjustedText"`
	OriginalText string `json:"originalText"`
	HeaderText   string `json:"headerText"`
	WasAdjusted  bool   `json:"wasAdjusted"`
}

// maxResponseSize caps how much of a tone-adjust response we read.
const maxResponseSize = 1 << 20

// Client calls a remote tone-adjust endpoint. It implements Rewriter.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Client posting to endpoint, e.g.
// "https://ikigen.vercel.app/api/tone-adjust". A nil httpClient gets a
// traced default; callers bound latency through the request context.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// RewriteFirstPerson posts text and header and returns the adjusted text.
// Any non-2xx status, transport error or malformed body is an error.
func (c *Client) RewriteFirstPerson(ctx context.Context, text, header string) (string, error) {
	body, err := json.Marshal(AdjustRequest{
		IkigaiText:  text,
		HeaderText:  header,
		TargetVoice: TargetFirstPerson,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("tone service error (status %d): %s", res.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var resp AdjustResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if strings.TrimSpace(resp.AdjustedText) == "" {
		return "", fmt.Errorf("response contained no adjusted text")
	}
	return resp.AdjustedText, nil
}
