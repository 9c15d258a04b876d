package tone

import "context"

// TargetFirstPerson is the only voice the share flow asks for.
const TargetFirstPerson = "first-person"

// Result is the outcome of a tone adjustment. WasAdjusted is true only when
// AdjustedText differs from the input because a rewrite was applied.
type Result struct {
	AdjustedText string `json:"adjustedText"`
	WasAdjusted  bool   `json:"wasAdjusted"`
}

// unchanged returns text as-is, marked unadjusted.
func unchanged(text string) Result {
	return Result{AdjustedText: text, WasAdjusted: false}
}

// Rewriter rewrites second-person text into the first person so it reads
// naturally under header. Implementations may call a remote service.
type Rewriter interface {
	RewriteFirstPerson(ctx context.Context, text, header string) (string, error)
}
