// Package prompts holds the model prompt templates. Templates live in JSON
// files embedded at compile time and use {{.Key}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// OutreachFile holds the job-extraction and email-writing prompts.
const OutreachFile = "outreach.json"

// Keys in OutreachFile.
const (
	ExtractJobs = "extract-jobs"
	WriteEmail  = "write-email"
)

var placeholderPattern = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9]*)\}\}`)

type promptFile struct {
	once    sync.Once
	prompts map[string]string
	err     error
}

// files maps a filename to its lazily parsed *promptFile.
var files sync.Map

// Get retrieves a prompt by filename and key.
// The filename should not include the path (e.g., "outreach.json").
func Get(filename, key string) (string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet retrieves a prompt by filename and key, panicking if not found.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces {{.Key}} placeholders with values from data. Substitution is
// a single pass: placeholders inside substituted values, which scraped pages
// sometimes contain, are left alone. Placeholders without data are kept.
func Format(template string, data map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := data[key]; ok {
			return value
		}
		return match
	})
}

// Placeholders returns the distinct placeholder keys in template, sorted.
func Placeholders(template string) []string {
	seen := map[string]bool{}
	keys := []string{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	sort.Strings(keys)
	return keys
}

// Render loads a prompt and fills it. Every placeholder must have a value.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}

	var missing []string
	for _, k := range Placeholders(template) {
		if _, ok := data[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %s/%s: no value for %s", filename, key, strings.Join(missing, ", "))
	}
	return Format(template, data), nil
}

// MustRender is Render for the built-in prompts, whose data is fixed at compile time.
func MustRender(filename, key string, data map[string]string) string {
	prompt, err := Render(filename, key, data)
	if err != nil {
		panic(err.Error())
	}
	return prompt
}

// List returns all prompt keys in a file, sorted.
func List(filename string) ([]string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func loadFile(filename string) (map[string]string, error) {
	entry, _ := files.LoadOrStore(filename, &promptFile{})
	f := entry.(*promptFile)
	f.once.Do(func() {
		data, err := promptFiles.ReadFile(filename)
		if err != nil {
			f.err = fmt.Errorf("failed to read prompt file %s: %w", filename, err)
			return
		}
		if err := json.Unmarshal(data, &f.prompts); err != nil {
			f.err = fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
		}
	})
	return f.prompts, f.err
}
