package resume

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultVocabulary returns the built-in technology terms matched against resumes.
func DefaultVocabulary() []string {
	return []string{
		"Python", "Java", "JavaScript", "TypeScript", "C", "C++", "HTML", "CSS", "SQL",
		"React", "Node.js", "Express", "Flask", "Flutter", "NumPy", "Pandas",
		"TensorFlow", "PyTorch", "Matplotlib", "BeautifulSoup", "Scikit-learn",
		"TailwindCSS", "Streamlit", "AWS", "Azure", "GCP", "Docker", "Kubernetes", "Git",
		"MongoDB", "PostgreSQL", "Firebase", "REST", "GraphQL", "CI/CD", "DevOps",
		"Machine Learning", "AI",
	}
}

// normalizeVocabulary trims terms and drops blanks and case-insensitive
// duplicates, keeping the first spelling seen.
func normalizeVocabulary(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		key := strings.ToLower(term)
		if term == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, term)
	}
	return out
}

// containsTerm reports whether the lowercased term occurs in lower. Terms of
// one character only count as a standalone word, and not as the start of
// "c++" or "c#", since a bare substring would match nearly every document.
func containsTerm(lower, term string) bool {
	if utf8.RuneCountInString(term) != 1 {
		return strings.Contains(lower, term)
	}

	for offset := 0; offset < len(lower); {
		i := strings.Index(lower[offset:], term)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(term)

		before, _ := utf8.DecodeLastRuneInString(lower[:start])
		after, _ := utf8.DecodeRuneInString(lower[end:])
		if (start == 0 || !isWordRune(before)) &&
			(end == len(lower) || (!isWordRune(after) && after != '+' && after != '#')) {
			return true
		}
		offset = end
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
