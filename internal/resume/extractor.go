// Package resume extracts a structured candidate profile from resume text.
// Every extraction rule fails soft: Extract never returns an error.
package resume

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/cold-connect/internal/types"
)

// DefaultNameScanLines is how many leading lines are searched for a name.
const DefaultNameScanLines = 10

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// "3 years at Acme", "2 yrs with Foo & Bar". Company names keep digits and ampersands.
	experiencePattern = regexp.MustCompile(`(?i)(\d+)\s*(?:years?|yrs?)\s*(?:at|with)\s*([A-Za-z0-9 &]+)`)
)

// Options configures an Extractor.
type Options struct {
	Vocabulary    []string     // skill terms; nil uses DefaultVocabulary
	NameDetector  NameDetector // nil uses TitleCaseDetector
	NameScanLines int          // zero uses DefaultNameScanLines
	Decoder       Decoder      // nil uses PDFDecoder
}

// Extractor turns resume text into a CandidateProfile.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	vocabulary []string
	lowered    []string
	names      NameDetector
	scanLines  int
	decoder    Decoder
}

// NewExtractor creates an Extractor from opts, filling unset options with defaults.
func NewExtractor(opts Options) *Extractor {
	vocab := opts.Vocabulary
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	vocab = normalizeVocabulary(vocab)

	lowered := make([]string, len(vocab))
	for i, term := range vocab {
		lowered[i] = strings.ToLower(term)
	}

	e := &Extractor{
		vocabulary: vocab,
		lowered:    lowered,
		names:      opts.NameDetector,
		scanLines:  opts.NameScanLines,
		decoder:    opts.Decoder,
	}
	if e.names == nil {
		e.names = TitleCaseDetector{}
	}
	if e.scanLines <= 0 {
		e.scanLines = DefaultNameScanLines
	}
	if e.decoder == nil {
		e.decoder = PDFDecoder{}
	}
	return e
}

// Vocabulary returns a copy of the skill terms this extractor matches.
func (e *Extractor) Vocabulary() []string {
	return append([]string(nil), e.vocabulary...)
}

// Extract builds a CandidateProfile from plain resume text.
func (e *Extractor) Extract(text string) *types.CandidateProfile {
	return &types.CandidateProfile{
		Name:       e.extractName(text),
		Email:      extractEmail(text),
		Skills:     e.extractSkills(text),
		Experience: extractExperience(text),
	}
}

// ExtractDocument decodes resume bytes and extracts a profile from the text.
// Only a document that cannot be decoded at all is an error.
func (e *Extractor) ExtractDocument(data []byte) (*types.CandidateProfile, error) {
	text, err := e.decoder.Decode(data)
	if err != nil {
		return nil, err
	}
	return e.Extract(text), nil
}

func (e *Extractor) extractName(text string) types.Field {
	lines := splitLines(text)
	if len(lines) > e.scanLines {
		lines = lines[:e.scanLines]
	}
	if name, ok := e.names.DetectName(lines); ok {
		return types.FoundField(name)
	}
	return types.MissingField()
}

func extractEmail(text string) types.Field {
	if match := emailPattern.FindString(text); match != "" {
		return types.FoundField(match)
	}
	return types.MissingField()
}

func (e *Extractor) extractSkills(text string) []string {
	lower := strings.ToLower(text)
	skills := []string{}
	for i, term := range e.lowered {
		if containsTerm(lower, term) {
			skills = append(skills, e.vocabulary[i])
		}
	}
	return skills
}

func extractExperience(text string) []string {
	entries := []string{}
	for _, m := range experiencePattern.FindAllStringSubmatch(text, -1) {
		company := strings.TrimSpace(m[2])
		if company == "" {
			continue
		}
		entries = append(entries, fmt.Sprintf("%s years at %s", m[1], company))
	}
	return entries
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
