package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/apresai/ikigen/internal/share"
)

// ShareFunction serves POST {insight} on a Lambda function URL and answers
// with a composed ShareResponse.
type ShareFunction struct {
	composer *share.Composer
	siteURL  string
	log      *slog.Logger
}

// NewShareFunction creates the handler. A nil composer uses the built-in
// templates with the rule-based tone pass only.
func NewShareFunction(composer *share.Composer, siteURL string, logger *slog.Logger) *ShareFunction {
	if logger == nil {
		logger = slog.Default()
	}
	if composer == nil {
		composer = share.NewComposer(nil, nil, logger)
	}
	return &ShareFunction{composer: composer, siteURL: siteURL, log: logger}
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

// Handle is the lambda.Start entry point.
func (f *ShareFunction) Handle(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	switch req.RequestContext.HTTP.Method {
	case http.MethodOptions:
		return events.LambdaFunctionURLResponse{StatusCode: http.StatusNoContent, Headers: corsHeaders}, nil
	case http.MethodPost:
	default:
		return lambdaJSON(http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"}), nil
	}

	var body ShareRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		f.log.WarnContext(ctx, "Invalid share request", "error", err)
		return lambdaJSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"}), nil
	}

	post := f.composer.Build(ctx, body.Insight)
	f.log.InfoContext(ctx, "Composed share post", "header", post.Header, "was_adjusted", post.WasAdjusted)
	return lambdaJSON(http.StatusOK, ShareResponse{
		Post:         post.String(),
		Header:       post.Header,
		CallToAction: post.CallToAction,
		WasAdjusted:  post.WasAdjusted,
		ShareURL:     share.LinkedInURL(f.siteURL),
	}), nil
}

func lambdaJSON(status int, v any) events.LambdaFunctionURLResponse {
	headers := map[string]string{"Content-Type": "application/json"}
	for k, val := range corsHeaders {
		headers[k] = val
	}
	body, err := json.Marshal(v)
	if err != nil {
		return events.LambdaFunctionURLResponse{StatusCode: http.StatusInternalServerError, Headers: headers}
	}
	return events.LambdaFunctionURLResponse{StatusCode: status, Headers: headers, Body: string(body)}
}
