package share

import (
	"regexp"
	"strings"
	"unicode"
)

// EmphasisMarker wraps the insight so LinkedIn-style editors render it in italics.
const EmphasisMarker = "*"

func isDoubleQuote(r rune) bool {
	switch r {
	case '"', '“', '”', '„', '‟', '«', '»':
		return true
	}
	return false
}

func isSingleQuote(r rune) bool {
	switch r {
	case '\'', '‘', '’', '‚', '‛':
		return true
	}
	return false
}

func isQuote(r rune) bool { return isDoubleQuote(r) || isSingleQuote(r) }

// blankLinesRe matches a line break followed by one or more blank lines.
var blankLinesRe = regexp.MustCompile(`[ \t\r]*\n(?:[ \t\r]*\n)+[ \t\r]*`)

// CleanInsight strips quotation marks from an insight. Quotes and spaces are
// trimmed from both ends, then every remaining quote is dropped. Blank lines
// collapse to a single line break so the insight stays one post segment.
func CleanInsight(s string) string {
	s = strings.TrimFunc(s, func(r rune) bool {
		return isQuote(r) || unicode.IsSpace(r)
	})
	s = strings.Map(func(r rune) rune {
		if isQuote(r) {
			return -1
		}
		return r
	}, s)
	return blankLinesRe.ReplaceAllString(s, "\n")
}

// Emphasize wraps s in a single pair of emphasis markers.
func Emphasize(s string) string {
	return EmphasisMarker + s + EmphasisMarker
}
