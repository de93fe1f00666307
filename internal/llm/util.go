package llm

import (
	"encoding/json"
	"strings"
)

// CleanJSONBlock strips markdown fences and surrounding chatter from a model
// reply, returning the first balanced JSON object or array it contains.
// Text with no recognisable JSON is returned trimmed and otherwise untouched
// so the caller's decoder reports the failure.
func CleanJSONBlock(text string) string {
	text = stripFence(strings.TrimSpace(text))
	if text == "" {
		return ""
	}

	// A bracket can open prose too ("[Note] ..."), so each candidate must
	// balance and parse before it is accepted.
	for offset := 0; offset < len(text); {
		i := strings.IndexAny(text[offset:], "{[")
		if i < 0 {
			break
		}
		start := offset + i
		if out := extractBalanced(text[start:]); out != "" && json.Valid([]byte(out)) {
			return out
		}
		offset = start + 1
	}
	return text
}

func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Drop a language tag such as json or javascript.
	if idx := strings.Index(text, "\n"); idx >= 0 {
		first := text[:idx]
		if len(first) < 20 && !strings.ContainsAny(first, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// extractBalanced returns the prefix of s that closes the bracket s opens with,
// ignoring brackets inside string literals. It returns "" when s does not
// start with a bracket or never closes.
func extractBalanced(s string) string {
	if s == "" {
		return ""
	}
	var open, closing byte
	switch s[0] {
	case '{':
		open, closing = '{', '}'
	case '[':
		open, closing = '[', ']'
	default:
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
