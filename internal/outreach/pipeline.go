package outreach

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cold-connect/internal/fetch"
	"github.com/jonathan/cold-connect/internal/ingestion"
	"github.com/jonathan/cold-connect/internal/observability"
	"github.com/jonathan/cold-connect/internal/types"
)

// Step names reported through ProgressEvent.
const (
	StepIngest  = "ingest_page"
	StepExtract = "extract_jobs"
	StepEmail   = "write_email"
	StepDone    = "done"
)

// ProgressEvent represents a progress update during a pipeline run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Index   int    `json:"index,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// JobsExtractor turns cleaned careers-page text into postings.
type JobsExtractor interface {
	ExtractJobs(ctx context.Context, cleanedText string) ([]types.JobPosting, error)
}

// Drafter writes the email for one posting.
type Drafter interface {
	Draft(ctx context.Context, job types.JobPosting, info types.UserInfo) (*types.GeneratedEmail, error)
}

// RunOptions holds the inputs for one pipeline run. Exactly one of JobURL and
// PageText is used; JobURL wins when both are set.
type RunOptions struct {
	JobURL     string
	PageText   string
	User       types.UserInfo
	Profile    *types.CandidateProfile
	OnProgress ProgressCallback
}

// JobResult is the outcome for one posting. Exactly one of Email and Err is set.
type JobResult struct {
	Job   types.JobPosting
	Email *types.GeneratedEmail
	Err   error
}

// Result collects everything a run produced.
type Result struct {
	RunID    string
	JobURL   string
	Metadata *ingestion.Metadata
	Profile  *types.CandidateProfile
	User     types.UserInfo
	Jobs     []JobResult
	Duration time.Duration
}

// Failed returns the number of postings whose email could not be written.
func (r *Result) Failed() int {
	n := 0
	for _, j := range r.Jobs {
		if j.Err != nil {
			n++
		}
	}
	return n
}

// Pipeline wires the page fetcher, job extractor and email writer together.
type Pipeline struct {
	Fetcher   fetch.Fetcher
	Extractor JobsExtractor
	Drafter   Drafter
	Verbose   bool
	Out       io.Writer
}

// NewPipeline creates a pipeline that prints verbose output to stdout.
func NewPipeline(fetcher fetch.Fetcher, extractor JobsExtractor, drafter Drafter, verbose bool) *Pipeline {
	return &Pipeline{
		Fetcher:   fetcher,
		Extractor: extractor,
		Drafter:   drafter,
		Verbose:   verbose,
		Out:       os.Stdout,
	}
}

// Run processes one submission: ingest the page, extract postings, then draft
// an email for each posting in order. Caller fields are validated before any
// fetch or model call. Ingestion or extraction failure aborts the run; a
// failed email is recorded on its JobResult and the next posting still runs.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:   uuid.NewString(),
		JobURL:  opts.JobURL,
		Profile: opts.Profile,
	}
	printer := p.printer()

	user := MergeProfile(opts.User, opts.Profile)
	if err := ValidateUserInfo(trimUserInfo(user)); err != nil {
		return nil, err
	}
	if opts.JobURL == "" && opts.PageText == "" {
		return nil, &ValidationError{Field: "job_url", Message: "a job URL or page text is required"}
	}
	result.User = user

	if p.Verbose && opts.Profile != nil {
		printer.PrintCandidateProfile(opts.Profile)
	}

	cleaned, err := p.ingest(ctx, opts, result)
	if err != nil {
		return nil, err
	}
	p.emit(opts, ProgressEvent{Step: StepIngest, RunID: result.RunID,
		Message: fmt.Sprintf("Ingested %d characters of page text", len(cleaned))})

	jobs, err := p.Extractor.ExtractJobs(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("job extraction failed: %w", err)
	}
	if p.Verbose {
		printer.PrintJobPostings(jobs)
	}
	p.emit(opts, ProgressEvent{Step: StepExtract, RunID: result.RunID,
		Message: fmt.Sprintf("Extracted %d job posting(s)", len(jobs)), Content: jobs})

	result.Jobs = make([]JobResult, 0, len(jobs))
	for i, job := range jobs {
		email, err := p.Drafter.Draft(ctx, job, user)
		jr := JobResult{Job: job, Email: email, Err: err}
		if err != nil {
			jr.Email = nil
			log.Printf("[PIPELINE] Run %s: email for %q failed: %v", result.RunID, job.Role, err)
			p.emit(opts, ProgressEvent{Step: StepEmail, RunID: result.RunID, Index: i,
				Message: fmt.Sprintf("Failed to write email for %s: %v", job.Role, err)})
		} else {
			p.emit(opts, ProgressEvent{Step: StepEmail, RunID: result.RunID, Index: i,
				Message: fmt.Sprintf("Wrote email for %s", job.Role), Content: email})
		}
		result.Jobs = append(result.Jobs, jr)
	}

	result.Duration = time.Since(start)
	if p.Verbose {
		roles := make([]string, len(result.Jobs))
		errs := make([]error, len(result.Jobs))
		for i, jr := range result.Jobs {
			roles[i], errs[i] = jr.Job.Role, jr.Err
		}
		printer.PrintRunSummary(result.RunID, roles, errs)
	}
	p.emit(opts, ProgressEvent{Step: StepDone, RunID: result.RunID,
		Message: fmt.Sprintf("Generated %d of %d email(s)", len(result.Jobs)-result.Failed(), len(result.Jobs))})

	return result, nil
}

func (p *Pipeline) ingest(ctx context.Context, opts RunOptions, result *Result) (string, error) {
	if opts.JobURL == "" {
		cleaned := ingestion.Normalize(opts.PageText)
		result.Metadata = ingestion.NewMetadata(cleaned, "")
		result.Metadata.RawLength = len(opts.PageText)
		if cleaned == "" {
			return "", fmt.Errorf("page ingestion failed: %w", ingestion.ErrEmptyContent)
		}
		return cleaned, nil
	}

	if p.Verbose {
		log.Printf("[PIPELINE] Run %s: ingesting %s", result.RunID, opts.JobURL)
	}
	cleaned, meta, err := ingestion.IngestFromURL(ctx, p.Fetcher, opts.JobURL, p.Verbose)
	if err != nil {
		return "", fmt.Errorf("page ingestion failed: %w", err)
	}
	result.Metadata = meta
	return cleaned, nil
}

func (p *Pipeline) emit(opts RunOptions, event ProgressEvent) {
	if opts.OnProgress != nil {
		opts.OnProgress(event)
	}
}

func (p *Pipeline) printer() *observability.Printer {
	if p.Out == nil {
		return observability.NewPrinter(io.Discard)
	}
	return observability.NewPrinter(p.Out)
}
