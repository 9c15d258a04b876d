package share_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apresai/ikigen/internal/share"
)

func TestCleanInsight(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "My purpose is to teach", "My purpose is to teach"},
		{"straight double", `"My purpose is to teach"`, "My purpose is to teach"},
		{"curly double", "“My purpose is to teach”", "My purpose is to teach"},
		{"single", "'My purpose is to teach'", "My purpose is to teach"},
		{"curly single", "‘My purpose’", "My purpose"},
		{"padded", "  \"My purpose\"  \n", "My purpose"},
		{"inner double", `I am the "quiet" kind`, "I am the quiet kind"},
		{"guillemets", "«My path» unfolds", "My path unfolds"},
		{"apostrophe removed", "I hold the world's stories", "I hold the worlds stories"},
		{"curly apostrophe removed", "I’m becoming", "Im becoming"},
		{"nested singles", "the world's 'quiet' light", "the worlds quiet light"},
		{"blank lines collapse", "First line.\n\nSecond paragraph.", "First line.\nSecond paragraph."},
		{"whitespace blank lines", "One.\r\n \r\n\n\tTwo.", "One.\nTwo."},
		{"single break kept", "One.\nTwo.", "One.\nTwo."},
		{"stray single removed", "the ' gap", "the  gap"},
		{"only quotes", `""''`, ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, share.CleanInsight(tt.in))
		})
	}
}

func TestEmphasize(t *testing.T) {
	assert.Equal(t, "*My purpose*", share.Emphasize("My purpose"))
	assert.Equal(t, "**", share.Emphasize(""))
}

func TestLinkedInURL(t *testing.T) {
	assert.Equal(t,
		"https://www.linkedin.com/sharing/share-offsite/?url=https%3A%2F%2Fikigen.vercel.app",
		share.LinkedInURL(""))
	assert.Equal(t,
		"https://www.linkedin.com/sharing/share-offsite/?url=https%3A%2F%2Fexample.com%2Fa%3Fb%3Dc",
		share.LinkedInURL("https://example.com/a?b=c"))
}
