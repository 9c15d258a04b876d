package insight

import (
	"fmt"
	"strings"
)

// Reflection contexts. Each step of the wizard asks for an insight in one
// of these; anything else gets a generic reflection.
const (
	ContextLove       = "What You Love"
	ContextGoodAt     = "What You're Good At"
	ContextWorldNeeds = "What the World Needs"
	ContextPaidFor    = "What You Can Be Paid For"
	ContextSummary    = "Final Ikigai Summary"
)

const (
	insightMaxTokens = 200
	toneMaxTokens    = 150
	temperature      = 0.7
)

const insightSystemPrompt = `You are a gentle reflection guide. You read what a person wrote about themselves and answer with one short, poetic insight (two or three sentences) that names what you notice. Speak to them directly. Do not repeat their words back, do not add advice lists, and do not use quotation marks.`

const summarySystemPrompt = `You are a gentle reflection guide. You read a person's four answers about what they love, what they are good at, what the world needs and what they can be paid for, and you distill their Ikigai.

Return ONLY a JSON object with this exact shape:
{
  "ikigai": "one sentence naming their reason for being",
  "meaning": "two or three sentences on how the four answers meet",
  "suggestions": ["a concrete next step", "another", "a third"]
}`

const rewriteSystemPrompt = `You rewrite short reflective passages from the second person into the first person so the reader can share them as their own. Keep the imagery, rhythm and approximate length. Change only the point of view. Return the rewritten passage alone, without quotation marks.`

var contextFocus = map[string]string{
	ContextLove:       "what brings them joy and makes time disappear",
	ContextGoodAt:     "the strengths and gifts others rely on them for",
	ContextWorldNeeds: "the change they feel called to make around them",
	ContextPaidFor:    "how their work can sustain them and be valued",
}

func buildInsightPrompt(req Request) Prompt {
	if req.Context == ContextSummary {
		return Prompt{
			System:      summarySystemPrompt,
			User:        req.Input,
			MaxTokens:   insightMaxTokens,
			Temperature: temperature,
			JSON:        true,
		}
	}

	var b strings.Builder
	if focus, ok := contextFocus[req.Context]; ok {
		fmt.Fprintf(&b, "Reflection step: %s. Look for %s.\n", req.Context, focus)
	} else if req.Context != "" {
		fmt.Fprintf(&b, "Reflection step: %s.\n", req.Context)
	}
	if q := strings.TrimSpace(req.Question); q != "" {
		fmt.Fprintf(&b, "They were asked: %s\n", q)
	}
	fmt.Fprintf(&b, "They wrote:\n%s", req.Input)

	return Prompt{
		System:      insightSystemPrompt,
		User:        b.String(),
		MaxTokens:   insightMaxTokens,
		Temperature: temperature,
	}
}

func buildRewritePrompt(text, header string) Prompt {
	user := text
	if header != "" {
		user = fmt.Sprintf("It will be shared under the heading %q.\n\n%s", header, text)
	}
	return Prompt{
		System:      rewriteSystemPrompt,
		User:        user,
		MaxTokens:   toneMaxTokens,
		Temperature: temperature,
	}
}
