package tone

import "regexp"

// firstPersonRe matches the first-person markers as whole words. Go's \b is
// ASCII-only, which is what we want: "tiger" or "mighty" never match.
var firstPersonRe = regexp.MustCompile(`(?i)\b(?:i|my|me|mine|myself)\b`)

// IsFirstPersonVoice reports whether header speaks in the first person.
func IsFirstPersonVoice(header string) bool {
	if header == "" {
		return false
	}
	return firstPersonRe.MatchString(header)
}
