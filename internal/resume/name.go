package resume

import (
	"strings"
	"unicode"
)

// NameDetector finds the candidate's name among the leading lines of a resume.
type NameDetector interface {
	DetectName(lines []string) (string, bool)
}

// NameDetectorFunc adapts a function to NameDetector.
type NameDetectorFunc func(lines []string) (string, bool)

// DetectName calls f(lines).
func (f NameDetectorFunc) DetectName(lines []string) (string, bool) {
	return f(lines)
}

// TitleCaseDetector picks the first line made of two or more tokens whose
// alphabetic tokens are all an uppercase letter followed by lowercase letters
// ("Jane Doe"). Tokens containing non-letters are ignored by the test, so a
// line with no alphabetic tokens qualifies as well.
//
// This is a coarse heuristic. It misses "van der Berg" and single-token names
// and accepts two-word headers such as "Contact Information".
type TitleCaseDetector struct{}

// DetectName returns the first qualifying line, trimmed.
func (TitleCaseDetector) DetectName(lines []string) (string, bool) {
	for _, line := range lines {
		candidate := strings.TrimSpace(line)
		if isTitleCaseLine(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isTitleCaseLine(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return false
	}
	for _, token := range tokens {
		if isAlpha(token) && !isCapitalized(token) {
			return false
		}
	}
	return true
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// isCapitalized reports whether s is one uppercase letter followed by a
// non-empty all-lowercase remainder.
func isCapitalized(s string) bool {
	runes := []rune(s)
	if len(runes) < 2 || !unicode.IsUpper(runes[0]) {
		return false
	}

	cased := false
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}
