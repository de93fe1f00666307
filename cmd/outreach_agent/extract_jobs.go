package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-connect/internal/config"
	"github.com/jonathan/cold-connect/internal/fetch"
	"github.com/jonathan/cold-connect/internal/ingestion"
	"github.com/jonathan/cold-connect/internal/observability"
	"github.com/jonathan/cold-connect/internal/parsing"
)

var extractJobsCmd = &cobra.Command{
	Use:   "extract-jobs",
	Short: "Extract job postings from a careers page",
	Long:  "Fetch a careers page (or read a saved one), clean its text, and ask the model for the job postings on it.",
	RunE:  runExtractJobs,
}

var (
	jobsURL        string
	jobsPageFile   string
	jobsOut        string
	jobsUseBrowser bool
)

func init() {
	extractJobsCmd.Flags().StringVarP(&jobsURL, "url", "u", "", "Careers page URL (mutually exclusive with --page)")
	extractJobsCmd.Flags().StringVarP(&jobsPageFile, "page", "p", "", "Saved careers page, HTML or text (mutually exclusive with --url)")
	extractJobsCmd.Flags().StringVarP(&jobsOut, "out", "o", "", "Write the postings as JSON to this file")
	extractJobsCmd.Flags().BoolVar(&jobsUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")

	rootCmd.AddCommand(extractJobsCmd)
}

func runExtractJobs(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("url") {
		cfg.JobURL = jobsURL
	}
	if cmd.Flags().Changed("page") {
		cfg.PageFile = jobsPageFile
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = jobsUseBrowser
	}
	if err := requireOneSource(cfg, "url"); err != nil {
		return err
	}

	cleaned, _, err := ingestPage(ctx, cfg)
	if err != nil {
		return err
	}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	jobs, err := parsing.NewJobExtractor(client, cfg.Verbose).ExtractJobs(ctx, cleaned)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintJobPostings(jobs)

	if jobsOut != "" {
		data, err := json.MarshalIndent(jobs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal postings: %w", err)
		}
		if err := os.WriteFile(jobsOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Postings: %s\n", jobsOut)
	}
	return nil
}

// requireOneSource checks that exactly one of job_url and page_file is set.
// urlFlag names the command's URL flag in the error.
func requireOneSource(cfg config.Config, urlFlag string) error {
	if cfg.JobURL == "" && cfg.PageFile == "" {
		return fmt.Errorf("either --%s or --page must be provided (via flag or config)", urlFlag)
	}
	if cfg.JobURL != "" && cfg.PageFile != "" {
		return fmt.Errorf("--%s and --page are mutually exclusive; provide only one", urlFlag)
	}
	return nil
}

// ingestPage returns the cleaned careers-page text for cfg.JobURL or cfg.PageFile.
func ingestPage(ctx context.Context, cfg config.Config) (string, *ingestion.Metadata, error) {
	if cfg.PageFile != "" {
		cleaned, meta, err := ingestion.IngestFromFile(cfg.PageFile)
		if err != nil {
			return "", nil, fmt.Errorf("failed to ingest from file: %w", err)
		}
		if cleaned == "" {
			return "", nil, fmt.Errorf("%w: %s", ingestion.ErrEmptyContent, cfg.PageFile)
		}
		return cleaned, meta, nil
	}

	fetcher := fetch.NewPageFetcher(cfg.UseBrowser, cfg.Verbose)
	cleaned, meta, err := ingestion.IngestFromURL(ctx, fetcher, cfg.JobURL, cfg.Verbose)
	if err != nil {
		return "", nil, fmt.Errorf("failed to ingest from URL: %w", err)
	}
	return cleaned, meta, nil
}
