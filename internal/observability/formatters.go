// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cold-connect/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// EmailHeading precedes every generated email.
	EmailHeading = "Generated Email"
	noneListed   = "None listed"
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(line string) string {
	if utf8.RuneCountInString(line) <= boxWidth-4 {
		return line
	}
	runes := []rune(line)
	return string(runes[:boxWidth-7]) + "..."
}

// PrintCandidateProfile shows what was read from an uploaded resume.
func (p *Printer) PrintCandidateProfile(profile *types.CandidateProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:       %s\n", profile.DisplayName()))
	sb.WriteString(fmt.Sprintf("Email:      %s\n", profile.DisplayEmail()))
	sb.WriteString(fmt.Sprintf("Skills:     %s\n", joinOrNone(profile.Skills)))
	sb.WriteString(fmt.Sprintf("Experience: %s", joinOrNone(profile.Experience)))

	p.printBox("RESUME PROCESSED", sb.String())
}

// PrintJobPostings lists the postings extracted from a careers page.
func (p *Printer) PrintJobPostings(postings []types.JobPosting) {
	if len(postings) == 0 {
		p.printBox("JOB POSTINGS", "No job postings found")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d posting(s)\n\n", len(postings)))
	for i, job := range postings {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, orDash(job.Role)))
		if job.Experience != "" {
			sb.WriteString(fmt.Sprintf("   Experience: %s\n", job.Experience))
		}
		if len(job.Skills) > 0 {
			shown := job.Skills
			if len(shown) > maxItemsToShow {
				shown = shown[:maxItemsToShow]
			}
			sb.WriteString(fmt.Sprintf("   Skills: %s", strings.Join(shown, ", ")))
			if extra := len(job.Skills) - len(shown); extra > 0 {
				sb.WriteString(fmt.Sprintf(" ... and %d more", extra))
			}
			sb.WriteString("\n")
		}
	}

	p.printBox("JOB POSTINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEmail writes the email under its heading. The body is printed
// verbatim, never boxed or truncated.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintEmail(role string, email *types.GeneratedEmail) {
	heading := EmailHeading
	if role != "" {
		heading = fmt.Sprintf("%s: %s", EmailHeading, role)
	}
	fmt.Fprintf(p.out, "\n## %s\n\n", heading)
	if email != nil {
		fmt.Fprintln(p.out, email.Content)
	}
}

// PrintJobError reports a posting whose email could not be generated.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintJobError(role string, err error) {
	fmt.Fprintf(p.out, "\n## %s: %s\n\nError generating email: %v\n", EmailHeading, orDash(role), err)
}

// PrintRunSummary closes a pipeline run with per-posting outcomes.
func (p *Printer) PrintRunSummary(runID string, roles []string, errs []error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run: %s\n", runID))
	ok := 0
	for i, role := range roles {
		status := "✓"
		if i < len(errs) && errs[i] != nil {
			status = "✗"
		} else {
			ok++
		}
		sb.WriteString(fmt.Sprintf("  %s %s\n", status, orDash(role)))
	}
	sb.WriteString(fmt.Sprintf("\n%d of %d email(s) generated", ok, len(roles)))

	p.printBox("RUN SUMMARY", sb.String())
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return noneListed
	}
	return strings.Join(items, ", ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(untitled role)"
	}
	return s
}
