package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-connect/internal/observability"
	"github.com/jonathan/cold-connect/internal/outreach"
	"github.com/jonathan/cold-connect/internal/types"
)

var writeMailCmd = &cobra.Command{
	Use:   "write-mail",
	Short: "Draft an outreach email for one job posting",
	Long: `Draft an outreach email for a posting read from a JSON file, such as one written by
extract-jobs --out. Missing name, email, company or designation fail before the model is called.`,
	RunE: runWriteMail,
}

var (
	mailJobFile   string
	mailJobIndex  int
	mailResume    string
	mailCandidate candidateFlags
)

func init() {
	writeMailCmd.Flags().StringVarP(&mailJobFile, "job", "j", "", "Path to a JSON posting or list of postings (required)")
	writeMailCmd.Flags().IntVar(&mailJobIndex, "index", 0, "Which posting to use when --job holds a list")
	writeMailCmd.Flags().StringVarP(&mailResume, "resume", "r", "", "Resume whose skills and experience are merged into the candidate fields")
	mailCandidate.register(writeMailCmd)

	_ = writeMailCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(writeMailCmd)
}

func runWriteMail(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	mailCandidate.apply(cmd, &cfg)
	if cmd.Flags().Changed("resume") {
		cfg.Resume = mailResume
	}

	job, err := loadJobPosting(mailJobFile, mailJobIndex)
	if err != nil {
		return err
	}

	info := userInfo(cfg)
	if cfg.Resume != "" {
		profile, err := extractProfile(cfg)
		if err != nil {
			return err
		}
		info = outreach.MergeProfile(info, profile)
	}

	// Fail on missing fields before asking for an API key.
	if _, err := outreach.Compose(job, info); err != nil {
		return err
	}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	email, err := outreach.NewWriter(client, cfg.Verbose).Draft(ctx, job, info)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintEmail(job.Role, email)
	return nil
}

// loadJobPosting reads one posting from a file holding a posting or a list.
func loadJobPosting(path string, index int) (types.JobPosting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.JobPosting{}, fmt.Errorf("failed to read job file: %w", err)
	}

	var postings types.JobPostings
	if err := json.Unmarshal(data, &postings); err != nil {
		return types.JobPosting{}, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}
	if index < 0 || index >= len(postings) {
		return types.JobPosting{}, fmt.Errorf("--index %d out of range: %s holds %d posting(s)", index, path, len(postings))
	}
	return postings[index], nil
}
