package insight

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"
)

var (
	ErrEmptyInput    = errors.New("input text is required")
	ErrNoContent     = errors.New("no content generated")
	ErrQuotaExceeded = errors.New("API quota exceeded")
	ErrModelAccess   = errors.New("model not available")
	ErrNotConfigured = errors.New("insight generator not configured")
)

// StatusError is returned by generators that talk HTTP directly.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus maps an insight error to the status an API handler should return.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyInput), errors.Is(err, ErrModelAccess):
		return http.StatusBadRequest
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// classify tags provider errors with ErrQuotaExceeded or ErrModelAccess.
func classify(err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrModelAccess) {
		return err
	}

	status := statusCode(err)
	msg := strings.ToLower(err.Error())
	switch {
	case status == http.StatusTooManyRequests || strings.Contains(msg, "quota"):
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	case status == http.StatusNotFound || (status == 0 && strings.Contains(msg, "model")):
		return fmt.Errorf("%w: %w", ErrModelAccess, err)
	}
	return err
}

func statusCode(err error) int {
	var oaiErr *openai.APIError
	if errors.As(err, &oaiErr) {
		return oaiErr.HTTPStatusCode
	}
	var oaiReqErr *openai.RequestError
	if errors.As(err, &oaiReqErr) {
		return oaiReqErr.HTTPStatusCode
	}
	var antErr *anthropic.Error
	if errors.As(err, &antErr) {
		return antErr.StatusCode
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	// AWS SDK response errors.
	var awsErr interface{ HTTPStatusCode() int }
	if errors.As(err, &awsErr) {
		return awsErr.HTTPStatusCode()
	}
	return 0
}

func permanent(err error) bool {
	return errors.Is(err, ErrModelAccess) ||
		errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
