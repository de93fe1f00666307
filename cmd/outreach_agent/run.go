package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-connect/internal/config"
	"github.com/jonathan/cold-connect/internal/fetch"
	"github.com/jonathan/cold-connect/internal/observability"
	"github.com/jonathan/cold-connect/internal/outreach"
	"github.com/jonathan/cold-connect/internal/parsing"
	"github.com/jonathan/cold-connect/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Draft outreach emails for every posting on a careers page",
	Long: `Orchestrates the whole flow: ingest the careers page -> extract job postings -> draft one email per posting.

A posting whose email fails is reported and the remaining postings still run.
Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runJobURL     string
	runPageFile   string
	runResume     string
	runOut        string
	runUseBrowser bool
	runCandidate  candidateFlags
)

func init() {
	runCommand.Flags().StringVarP(&runJobURL, "job-url", "u", "", "Careers page URL (mutually exclusive with --page)")
	runCommand.Flags().StringVarP(&runPageFile, "page", "p", "", "Saved careers page, HTML or text (mutually exclusive with --job-url)")
	runCommand.Flags().StringVarP(&runResume, "resume", "r", "", "Resume PDF or text file (optional)")
	runCommand.Flags().StringVarP(&runOut, "out", "o", "", "Write the run result as JSON to this file")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	runCandidate.register(runCommand)

	rootCmd.AddCommand(runCommand)
}

// runResult is the JSON written by --out.
type runResult struct {
	RunID    string                  `json:"run_id"`
	JobURL   string                  `json:"job_url,omitempty"`
	Profile  *types.CandidateProfile `json:"profile,omitempty"`
	Emails   []runEmail              `json:"emails"`
	Failed   int                     `json:"failed"`
	Duration string                  `json:"duration"`
}

type runEmail struct {
	Job   types.JobPosting `json:"job"`
	Email string           `json:"email,omitempty"`
	Error string           `json:"error,omitempty"`
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: config file and persistent flags
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Step 2: command flags override
	flags := cmd.Flags()
	if flags.Changed("job-url") {
		cfg.JobURL = runJobURL
	}
	if flags.Changed("page") {
		cfg.PageFile = runPageFile
	}
	if flags.Changed("resume") {
		cfg.Resume = runResume
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	runCandidate.apply(cmd, &cfg)

	// Step 3: validate sources and caller fields before any network call
	if err := requireOneSource(cfg, "job-url"); err != nil {
		return err
	}
	opts, err := buildRunOptions(cfg)
	if err != nil {
		return err
	}
	if err := outreach.ValidateUserInfo(outreach.MergeProfile(opts.User, opts.Profile)); err != nil {
		return err
	}

	// Step 4: model client
	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	p := outreach.NewPipeline(
		fetch.NewPageFetcher(cfg.UseBrowser, cfg.Verbose),
		parsing.NewJobExtractor(client, cfg.Verbose),
		outreach.NewWriter(client, cfg.Verbose),
		cfg.Verbose,
	)
	p.Out = cmd.OutOrStdout()

	result, err := p.Run(ctx, opts)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	for _, jr := range result.Jobs {
		if jr.Err != nil {
			printer.PrintJobError(jr.Job.Role, jr.Err)
			continue
		}
		printer.PrintEmail(jr.Job.Role, jr.Email)
	}
	if len(result.Jobs) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No job postings found.")
	}

	if runOut != "" {
		if err := writeRunResult(runOut, result); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Run result: %s\n", runOut)
	}
	return nil
}

// buildRunOptions reads the page file and resume named by cfg.
func buildRunOptions(cfg config.Config) (outreach.RunOptions, error) {
	opts := outreach.RunOptions{
		JobURL: cfg.JobURL,
		User:   userInfo(cfg),
	}

	if cfg.PageFile != "" {
		raw, err := os.ReadFile(cfg.PageFile)
		if err != nil {
			return opts, fmt.Errorf("failed to read page file: %w", err)
		}
		opts.PageText = string(raw)
	}

	if cfg.Resume != "" {
		profile, err := extractProfile(cfg)
		if err != nil {
			return opts, err
		}
		opts.Profile = profile
	}
	return opts, nil
}

func writeRunResult(path string, result *outreach.Result) error {
	out := runResult{
		RunID:    result.RunID,
		JobURL:   result.JobURL,
		Profile:  result.Profile,
		Emails:   make([]runEmail, 0, len(result.Jobs)),
		Failed:   result.Failed(),
		Duration: result.Duration.String(),
	}
	for _, jr := range result.Jobs {
		e := runEmail{Job: jr.Job}
		if jr.Err != nil {
			e.Error = jr.Err.Error()
		} else {
			e.Email = jr.Email.Content
		}
		out.Emails = append(out.Emails, e)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run result: %w", err)
	}
	return nil
}
