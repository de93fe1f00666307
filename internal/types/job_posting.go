package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// JobPosting is one opening extracted from a careers page.
type JobPosting struct {
	Role        string   `json:"role"`
	Experience  string   `json:"experience"`
	Skills      []string `json:"skills"`
	Description string   `json:"description"`
}

// String renders the posting as compact JSON. This is the job description
// embedded in email-generation prompts.
func (j JobPosting) String() string {
	out := j
	if out.Skills == nil {
		out.Skills = []string{}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf("%+v", out)
	}
	return string(b)
}

// UnmarshalJSON tolerates the loose shapes models produce: numbers or lists
// where a string is expected, and comma-separated strings for skills.
func (j *JobPosting) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*j = JobPosting{
		Role:        looseString(raw["role"]),
		Experience:  looseString(raw["experience"]),
		Skills:      looseList(raw["skills"]),
		Description: looseString(raw["description"]),
	}
	return nil
}

// JobPostings is always a list, even when the source document held a single object.
type JobPostings []JobPosting

// UnmarshalJSON accepts either an array of postings or a single posting object.
func (p *JobPostings) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []JobPosting
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		if list == nil {
			list = []JobPosting{}
		}
		*p = list
		return nil
	}

	var single JobPosting
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	*p = JobPostings{single}
	return nil
}

func looseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if item == nil {
				continue
			}
			parts = append(parts, strings.TrimSpace(fmt.Sprint(item)))
		}
		return strings.Join(parts, ", ")
	}

	var v any
	if err := json.Unmarshal(raw, &v); err == nil && v != nil {
		switch val := v.(type) {
		case map[string]any:
			return strings.TrimSpace(string(raw))
		default:
			return strings.TrimSpace(fmt.Sprint(val))
		}
	}
	return ""
}

func looseList(raw json.RawMessage) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}

	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if item == nil {
				continue
			}
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
