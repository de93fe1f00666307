package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = "Jane Doe\njane@example.com\nSkills: Python, Docker\n2 years at Initech\n"

func TestNormalizeCommand_Stdin(t *testing.T) {
	out, err := executeCommand(t, "<p>Hello   World</p><script>track()</script>", "normalize")

	require.NoError(t, err)
	assert.Equal(t, "Hello World\n", out)
}

func TestNormalizeCommand_FileToFile(t *testing.T) {
	in := writeFile(t, "page.html", "<h1>Careers</h1>\n<ul><li>Backend Engineer</li></ul> https://example.com/apply")
	outPath := filepath.Join(t.TempDir(), "clean.txt")

	out, err := executeCommand(t, "", "normalize", "--in", in, "--out", outPath, "--meta")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleaned text: "+outPath)
	assert.Contains(t, out, `"cleaned_length"`)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "Careers Backend Engineer\n", string(data))
}

func TestNormalizeCommand_MissingFile(t *testing.T) {
	_, err := executeCommand(t, "", "normalize", "--in", filepath.Join(t.TempDir(), "nope.html"))
	assert.Error(t, err)
}

func TestExtractResumeCommand(t *testing.T) {
	path := writeFile(t, "resume.txt", sampleResume)

	tests := []struct {
		name       string
		args       []string
		wantSkills []string
	}{
		{
			name:       "default vocabulary",
			args:       []string{"extract-resume", "--resume", path, "--json"},
			wantSkills: []string{"Python", "Docker"},
		},
		{
			name:       "custom vocabulary",
			args:       []string{"extract-resume", "--resume", path, "--json", "--vocabulary", "Docker,Rust"},
			wantSkills: []string{"Docker"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, "", tt.args...)
			require.NoError(t, err)

			var profile struct {
				Name   string   `json:"name"`
				Email  string   `json:"email"`
				Skills []string `json:"skills"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &profile), out)
			assert.Equal(t, "Jane Doe", profile.Name)
			assert.Equal(t, "jane@example.com", profile.Email)
			assert.Equal(t, tt.wantSkills, profile.Skills)
		})
	}
}

func TestExtractResumeCommand_Box(t *testing.T) {
	path := writeFile(t, "resume.txt", sampleResume)

	out, err := executeCommand(t, "", "extract-resume", "-r", path)

	require.NoError(t, err)
	assert.Contains(t, out, "RESUME PROCESSED")
	assert.Contains(t, out, "Jane Doe")
}

func TestExtractResumeCommand_FromConfig(t *testing.T) {
	path := writeFile(t, "resume.txt", sampleResume)
	cfgPath := writeFile(t, "config.json", `{"resume": "`+path+`", "skill_vocabulary": ["Python"]}`)

	out, err := executeCommand(t, "", "extract-resume", "--config", cfgPath, "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"Python"`)
	assert.NotContains(t, out, `"Docker"`)
}

func TestCommandErrors(t *testing.T) {
	clearLLMEnv(t)

	page := writeFile(t, "page.txt", "Backend Engineer. 3+ years of Go.")
	job := writeFile(t, "job.json", `{"role": "Backend Engineer", "skills": ["Go"]}`)
	badConfig := writeFile(t, "config.json", `{"provider": "openai"}`)

	tests := []struct {
		name      string
		args      []string
		wantError string
	}{
		{
			name:      "extract-resume without resume",
			args:      []string{"extract-resume"},
			wantError: "--resume must be provided",
		},
		{
			name:      "extract-jobs without source",
			args:      []string{"extract-jobs"},
			wantError: "either --url or --page must be provided",
		},
		{
			name:      "extract-jobs with both sources",
			args:      []string{"extract-jobs", "--url", "https://example.com/careers", "--page", page},
			wantError: "mutually exclusive",
		},
		{
			name:      "extract-jobs without API key",
			args:      []string{"extract-jobs", "--page", page},
			wantError: "GROQ_API_KEY",
		},
		{
			name:      "extract-jobs with unknown provider",
			args:      []string{"extract-jobs", "--page", page, "--provider", "openai"},
			wantError: "unknown LLM provider",
		},
		{
			name:      "invalid config file",
			args:      []string{"extract-jobs", "--config", badConfig},
			wantError: "unknown LLM provider",
		},
		{
			name:      "write-mail without job flag",
			args:      []string{"write-mail"},
			wantError: "required flag",
		},
		{
			name:      "write-mail missing name",
			args:      []string{"write-mail", "--job", job, "--email", "a@b.co", "--company", "Initech", "--designation", "SWE"},
			wantError: "name is required",
		},
		{
			name:      "write-mail index out of range",
			args:      []string{"write-mail", "--job", job, "--index", "3"},
			wantError: "out of range",
		},
		{
			name:      "write-mail without API key",
			args:      []string{"write-mail", "--job", job, "-n", "Jane", "--email", "a@b.co", "--company", "Initech", "--designation", "SWE"},
			wantError: "GROQ_API_KEY",
		},
		{
			name:      "write-mail anthropic key",
			args:      []string{"write-mail", "--job", job, "-n", "Jane", "--email", "a@b.co", "--company", "Initech", "--designation", "SWE", "--provider", "claude"},
			wantError: "ANTHROPIC_API_KEY",
		},
		{
			name:      "run without source",
			args:      []string{"run", "-n", "Jane"},
			wantError: "either --job-url or --page must be provided",
		},
		{
			name:      "run missing company",
			args:      []string{"run", "--page", page, "-n", "Jane", "--email", "a@b.co", "--designation", "SWE"},
			wantError: "company is required",
		},
		{
			name:      "run without API key",
			args:      []string{"run", "--page", page, "-n", "Jane", "--email", "a@b.co", "--company", "Initech", "--designation", "SWE"},
			wantError: "GROQ_API_KEY",
		},
		{
			name:      "serve without API key",
			args:      []string{"serve", "--provider", "gemini"},
			wantError: "GEMINI_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestLoadJobPosting(t *testing.T) {
	list := writeFile(t, "jobs.json", `[{"role": "SRE"}, {"role": "Designer", "skills": "Figma"}]`)

	job, err := loadJobPosting(list, 1)
	require.NoError(t, err)
	assert.Equal(t, "Designer", job.Role)
	assert.Equal(t, []string{"Figma"}, job.Skills)

	_, err = loadJobPosting(list, -1)
	assert.Error(t, err)

	bad := writeFile(t, "bad.json", `"just a string"`)
	_, err = loadJobPosting(bad, 0)
	assert.Error(t, err)
}

func TestPromptsCommand(t *testing.T) {
	out, err := executeCommand(t, "", "prompts")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "extract-jobs"))
	assert.Contains(t, lines[0], "PageText")
	assert.True(t, strings.HasPrefix(lines[1], "write-email"))
	assert.Contains(t, lines[1], "Company, Designation, Email, Experience, JobDescription, Name, Skills")
}

func TestPromptsCommand_Show(t *testing.T) {
	out, err := executeCommand(t, "", "prompts", "--show", "extract-jobs")
	require.NoError(t, err)
	assert.Contains(t, out, "{{.PageText}}")

	_, err = executeCommand(t, "", "prompts", "--show", "cover-letter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
