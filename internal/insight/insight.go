package insight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ikigen/insight")

// Request asks for one insight.
type Request struct {
	Input    string `json:"input"`
	Context  string `json:"context"`
	Question string `json:"question,omitempty"`
}

// Result is a generated insight. Structured is set only for a final summary
// whose JSON parsed cleanly.
type Result struct {
	Summary    string   `json:"summary"`
	Structured *Summary `json:"structured,omitempty"`
}

// Service generates reflection insights and first-person rewrites.
type Service struct {
	gen      Generator
	toneGen  Generator
	log      *slog.Logger
	attempts int
	backoff  time.Duration
}

// NewService creates a Service. toneGen serves RewriteFirstPerson; when nil
// gen is used for both.
func NewService(gen, toneGen Generator, logger *slog.Logger) *Service {
	if toneGen == nil {
		toneGen = gen
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gen:      gen,
		toneGen:  toneGen,
		log:      logger,
		attempts: defaultAttempts,
		backoff:  initialBackoff,
	}
}

// SetRetry changes how many attempts Insight makes and the first wait
// between them.
func (s *Service) SetRetry(attempts int, backoff time.Duration) {
	s.attempts = attempts
	s.backoff = backoff
}

// Insight generates the insight for one reflection step, or the structured
// summary when req.Context is ContextSummary.
func (s *Service) Insight(ctx context.Context, req Request) (*Result, error) {
	req.Input = strings.TrimSpace(req.Input)
	if req.Input == "" {
		return nil, ErrEmptyInput
	}
	if s == nil || s.gen == nil {
		return nil, ErrNotConfigured
	}

	ctx, span := tracer.Start(ctx, "insight.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("insight.context", req.Context),
		attribute.Int("insight.input_length", len(req.Input)),
	)

	p := buildInsightPrompt(req)
	text, err := retry(ctx, s.attempts, s.backoff, func() (string, error) {
		return complete(ctx, s.gen, p)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		s.log.ErrorContext(ctx, "Insight generation failed", "context", req.Context, "error", err)
		return nil, fmt.Errorf("generate insight: %w", err)
	}

	if req.Context == ContextSummary {
		if sum, ok := parseSummary(text); ok {
			span.SetAttributes(attribute.Bool("insight.structured", true))
			return &Result{Summary: sum.Ikigai, Structured: sum}, nil
		}
		s.log.WarnContext(ctx, "Summary was not valid JSON, returning raw text")
	}
	return &Result{Summary: text}, nil
}

// RewriteFirstPerson rewrites text into the first person in a single
// attempt. It satisfies tone.Rewriter.
func (s *Service) RewriteFirstPerson(ctx context.Context, text, header string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyInput
	}
	if s == nil || s.toneGen == nil {
		return "", ErrNotConfigured
	}

	ctx, span := tracer.Start(ctx, "insight.rewrite")
	defer span.End()

	out, err := complete(ctx, s.toneGen, buildRewritePrompt(text, header))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rewrite failed")
		return "", fmt.Errorf("rewrite first person: %w", err)
	}
	out = trimWrappingQuotes(out)
	if out == "" {
		return "", ErrNoContent
	}
	return out, nil
}

func complete(ctx context.Context, gen Generator, p Prompt) (string, error) {
	out, err := gen.Complete(ctx, p)
	if err != nil {
		return "", classify(err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrNoContent
	}
	return out, nil
}
