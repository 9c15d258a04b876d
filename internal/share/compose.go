package share

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/apresai/ikigen/internal/tone"
)

var tracer = otel.Tracer("ikigen/share")

// ToneAdjuster rewrites an insight into the voice of the chosen header.
// *tone.Enhancer satisfies it.
type ToneAdjuster interface {
	Adjust(ctx context.Context, text, header string) (tone.Result, error)
}

// Post is a composed share post.
type Post struct {
	Header       string `json:"header"`
	Insight      string `json:"insight"` // cleaned and emphasized
	CallToAction string `json:"callToAction"`
	WasAdjusted  bool   `json:"wasAdjusted"`
}

// String renders the post as header, insight and call to action separated
// by blank lines.
func (p Post) String() string {
	return p.Header + "\n\n" + p.Insight + "\n\n" + p.CallToAction
}

// Composer turns an Ikigai insight into a share post.
type Composer struct {
	selector *Selector
	adjuster ToneAdjuster
	log      *slog.Logger
}

// NewComposer creates a Composer. A nil selector uses the built-in
// templates; a nil adjuster means only the rule-based tone pass runs.
func NewComposer(sel *Selector, adj ToneAdjuster, logger *slog.Logger) *Composer {
	if sel == nil {
		sel = NewSelector(Templates{}, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{selector: sel, adjuster: adj, log: logger}
}

// Compose builds a post and renders it.
func (c *Composer) Compose(ctx context.Context, insight string) string {
	return c.Build(ctx, insight).String()
}

// Build selects a header and a call to action, aligns the insight's voice
// with the header, strips quotes and emphasizes the result. It never fails: when
// the adjuster errors the rule-based normalizer is used instead.
func (c *Composer) Build(ctx context.Context, insight string) Post {
	ctx, span := tracer.Start(ctx, "share.compose")
	defer span.End()

	header := c.selector.Header()
	cta := c.selector.CallToAction()
	adjusted := c.adjust(ctx, insight, header)
	post := Post{
		Header:       header,
		Insight:      Emphasize(CleanInsight(adjusted.AdjustedText)),
		CallToAction: cta,
		WasAdjusted:  adjusted.WasAdjusted,
	}

	span.SetAttributes(
		attribute.String("share.header", post.Header),
		attribute.Bool("share.was_adjusted", post.WasAdjusted),
	)
	return post
}

func (c *Composer) adjust(ctx context.Context, insight, header string) tone.Result {
	if c.adjuster == nil {
		return tone.RuleBased(insight, header)
	}
	res, err := c.tryAdjust(ctx, insight, header)
	if err != nil {
		c.log.Warn("tone adjustment failed, using rule-based fallback", "error", err)
		return tone.RuleBased(insight, header)
	}
	return res
}

func (c *Composer) tryAdjust(ctx context.Context, insight, header string) (res tone.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tone adjuster panicked: %v", r)
		}
	}()
	return c.adjuster.Adjust(ctx, insight, header)
}
