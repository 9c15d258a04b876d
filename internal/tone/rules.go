package tone

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// secondPersonRe detects the exact pronoun spellings that trigger a rewrite.
	secondPersonRe = regexp.MustCompile(`\b(?:Your|your|YOUR|You|you|YOU)\b`)

	// pronounRe matches every form we rewrite. Longer alternatives come first
	// and the trailing \b keeps "yourstory" or "youth" out.
	pronounRe = regexp.MustCompile(`(?i)\b(?:you(?:'|’)(?:re|ve|ll|d)|yourself|yours|your|you)\b`)

	// verbAgreementRe fixes the "you are" -> "I are" artifact.
	verbAgreementRe = regexp.MustCompile(`(?i)\bi are\b`)
)

// RuleBased rewrites second-person pronouns in text to first person when
// header is in the first-person voice. It never calls out and never fails.
//
// Your/your/YOUR become My/my/MY, while You/you/YOU all become "I" since the
// standalone pronoun is always capitalized. Contractions (you're, you've,
// you'll, you'd) and yours/yourself follow along once a rewrite is needed.
func RuleBased(text, header string) Result {
	if !IsFirstPersonVoice(header) {
		return unchanged(text)
	}
	if !secondPersonRe.MatchString(text) {
		return unchanged(text)
	}

	substitutions := 0
	adjusted := pronounRe.ReplaceAllStringFunc(text, func(word string) string {
		repl, ok := firstPersonFor(word)
		if ok {
			substitutions++
		}
		return repl
	})
	if substitutions == 0 {
		return unchanged(text)
	}

	adjusted = verbAgreementRe.ReplaceAllString(adjusted, "I am")
	return Result{AdjustedText: adjusted, WasAdjusted: true}
}

type letterCase int

const (
	caseLower letterCase = iota
	caseTitle
	caseUpper
	caseMixed
)

// caseOf classifies the letters of word, ignoring apostrophes.
func caseOf(word string) letterCase {
	var upper, lower int
	first := true
	firstUpper := false
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsUpper(r) {
			upper++
			if first {
				firstUpper = true
			}
		} else {
			lower++
		}
		first = false
	}
	switch {
	case upper == 0:
		return caseLower
	case lower == 0:
		return caseUpper
	case firstUpper && upper == 1:
		return caseTitle
	default:
		return caseMixed
	}
}

// firstPersonFor maps one matched pronoun to its first-person form. Oddly
// cased words ("yOu") are left alone and reported as not substituted.
func firstPersonFor(word string) (string, bool) {
	c := caseOf(word)
	if c == caseMixed {
		return word, false
	}

	lower := strings.ToLower(word)
	switch lower {
	case "your":
		return applyCase("my", c), true
	case "yours":
		return applyCase("mine", c), true
	case "yourself":
		return applyCase("myself", c), true
	case "you":
		return "I", true
	}

	// Contraction: "you" + apostrophe + suffix.
	rest := strings.TrimPrefix(lower, "you")
	apostrophe, size := utf8.DecodeRuneInString(rest)
	suffix := rest[size:]
	if suffix == "re" {
		suffix = "m"
	}
	if c == caseUpper {
		suffix = strings.ToUpper(suffix)
	}
	return "I" + string(apostrophe) + suffix, true
}

func applyCase(s string, c letterCase) string {
	switch c {
	case caseUpper:
		return strings.ToUpper(s)
	case caseTitle:
		return strings.ToUpper(s[:1]) + s[1:]
	default:
		return s
	}
}
