// Package ingestion turns raw careers-page content into the compact plain text
// used for prompting and pattern matching.
package ingestion

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	urlPattern = regexp.MustCompile(`(?i)\bhttps?://\S+`)
	// documentHint marks input that needs a real parse: whole pages, or
	// fragments whose script and style bodies must go with their tags.
	documentHint = regexp.MustCompile(`(?i)<(?:!doctype|html|head|body|script|style|noscript)\b`)
	// tagPattern matches closed tags and comments only, so a bare "<" in
	// text such as "x<y" is never mistaken for markup.
	tagPattern = regexp.MustCompile(`(?s)<(?:!--.*?--|[!/]?[a-zA-Z][^<>]*)>`)
)

// keptPunctuation is the punctuation that carries meaning in job text
// (C++, C#, Node.js, CI/CD, 5+ years, $120k, R&D).
const keptPunctuation = `.,:;!?'"()&%$#@+/-`

// Normalize reduces markup-derived text to a single line of plain text:
// script and style content is removed, tags are dropped, URLs are removed,
// non-essential punctuation is replaced by spaces and whitespace runs are
// collapsed to one space. Normalize is pure and returns "" for empty input.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := raw
	switch {
	case documentHint.MatchString(text):
		text = stripMarkup(text)
	case tagPattern.MatchString(text):
		text = html.UnescapeString(tagPattern.ReplaceAllString(text, " "))
	}

	text = urlPattern.ReplaceAllString(text, " ")
	text = strings.Map(keepRune, text)

	// Fields splits on every Unicode space, including NBSP and \v.
	return strings.Join(strings.Fields(text), " ")
}

// stripMarkup returns the text content of an HTML fragment with script,
// style and similar non-content elements removed.
func stripMarkup(page string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return page
	}

	doc.Find("script, style, noscript, template, svg, head").Remove()
	doc.Find("p, li, h1, h2, h3, h4, h5, h6, div, br, tr, td, section, article").Each(func(_ int, el *goquery.Selection) {
		el.AppendHtml(" ")
	})

	return doc.Text()
}

func keepRune(r rune) rune {
	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r):
		return r
	case strings.ContainsRune(keptPunctuation, r):
		return r
	default:
		return ' '
	}
}
