package parsing

import (
	"strings"

	"github.com/jonathan/cold-connect/internal/types"
)

// skillAliases maps common spelling variants to one canonical name.
var skillAliases = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"js":         "JavaScript",
	"javascript": "JavaScript",
	"ts":         "TypeScript",
	"typescript": "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
}

// NormalizeSkillName trims a skill and maps known aliases to their canonical
// spelling. Unknown skills keep the model's casing.
func NormalizeSkillName(skill string) string {
	skill = strings.Join(strings.Fields(skill), " ")
	if canonical, ok := skillAliases[strings.ToLower(skill)]; ok {
		return canonical
	}
	return skill
}

// NormalizeSkills canonicalizes skill names and drops blanks and
// case-insensitive duplicates, keeping first-seen order.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		name := NormalizeSkillName(s)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// NormalizePostings trims every posting field and normalizes its skills.
func NormalizePostings(postings []types.JobPosting) []types.JobPosting {
	out := make([]types.JobPosting, len(postings))
	for i, p := range postings {
		out[i] = types.JobPosting{
			Role:        strings.TrimSpace(p.Role),
			Experience:  strings.TrimSpace(p.Experience),
			Skills:      NormalizeSkills(p.Skills),
			Description: strings.TrimSpace(p.Description),
		}
	}
	return out
}
