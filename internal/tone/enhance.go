package tone

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultTimeout bounds a single enhanced rewrite.
const DefaultTimeout = 5 * time.Second

// ErrUnavailable is returned by an Enhancer that has no rewriter to call.
var ErrUnavailable = errors.New("tone rewriter unavailable")

var tracer = otel.Tracer("ikigen/tone")

// Enhancer adjusts tone through a Rewriter, usually backed by an LLM. It
// makes exactly one attempt and degrades to the original text on failure.
type Enhancer struct {
	rewriter Rewriter
	timeout  time.Duration
	log      *slog.Logger
}

// NewEnhancer creates an Enhancer. A zero timeout means DefaultTimeout.
func NewEnhancer(rw Rewriter, timeout time.Duration, logger *slog.Logger) *Enhancer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enhancer{rewriter: rw, timeout: timeout, log: logger}
}

// Adjust rewrites text into the first person when header calls for it.
// Rewriter failures, timeouts and empty output are swallowed: the original
// text comes back with WasAdjusted false. The only error is ErrUnavailable,
// so callers can choose their own fallback.
func (e *Enhancer) Adjust(ctx context.Context, text, header string) (Result, error) {
	if !IsFirstPersonVoice(header) {
		return unchanged(text), nil
	}
	if e == nil || e.rewriter == nil {
		return unchanged(text), ErrUnavailable
	}

	ctx, span := tracer.Start(ctx, "tone.enhance")
	defer span.End()
	span.SetAttributes(
		attribute.String("header", header),
		attribute.Int("text_length", len(text)),
	)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := e.rewriter.RewriteFirstPerson(ctx, text, header)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rewrite failed")
		e.log.WarnContext(ctx, "Tone adjustment failed, keeping original text", "error", err)
		return unchanged(text), nil
	}
	if strings.TrimSpace(out) == "" {
		span.SetStatus(codes.Error, "empty rewrite")
		e.log.WarnContext(ctx, "Tone adjustment returned no text, keeping original text")
		return unchanged(text), nil
	}

	span.SetAttributes(attribute.Bool("adjusted", true))
	return Result{AdjustedText: out, WasAdjusted: true}, nil
}
