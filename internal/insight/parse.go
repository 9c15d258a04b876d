package insight

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Summary is the structured result of the final Ikigai summary.
type Summary struct {
	Ikigai      string   `json:"ikigai"`
	Meaning     string   `json:"meaning"`
	Suggestions []string `json:"suggestions"`
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*\n?(.*?)\n?```")

func stripMarkdownFences(text string) string {
	if matches := fenceRe.FindStringSubmatch(text); len(matches) > 1 {
		return matches[1]
	}
	return text
}

func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// parseSummary reports false unless text holds a summary with all three
// fields filled in.
func parseSummary(text string) (*Summary, bool) {
	text = strings.TrimSpace(extractJSON(stripMarkdownFences(text)))
	if text == "" {
		return nil, false
	}

	var s Summary
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, false
	}
	s.Ikigai = strings.TrimSpace(s.Ikigai)
	s.Meaning = strings.TrimSpace(s.Meaning)
	if s.Ikigai == "" || s.Meaning == "" || len(s.Suggestions) == 0 {
		return nil, false
	}
	return &s, true
}

// trimWrappingQuotes drops double quotes from both ends, and single quotes
// only as a matched pair so a trailing possessive ("friends'") survives.
func trimWrappingQuotes(s string) string {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "\"“”"))
	for _, pair := range [][2]string{{"'", "'"}, {"‘", "’"}} {
		open, closing := pair[0], pair[1]
		if len(s) >= len(open)+len(closing) && strings.HasPrefix(s, open) && strings.HasSuffix(s, closing) {
			s = strings.TrimSpace(s[len(open) : len(s)-len(closing)])
		}
	}
	return s
}
