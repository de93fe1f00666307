package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-connect/internal/config"
	"github.com/jonathan/cold-connect/internal/observability"
	"github.com/jonathan/cold-connect/internal/resume"
	"github.com/jonathan/cold-connect/internal/types"
)

var extractResumeCmd = &cobra.Command{
	Use:   "extract-resume",
	Short: "Extract name, email, skills and experience from a resume",
	Long:  "Read a resume PDF (or plain text file) and print the candidate profile found in it. No model call is made.",
	RunE:  runExtractResume,
}

var (
	resumePath          string
	resumeVocabulary    []string
	resumeNameScanLines int
	resumeJSON          bool
)

func init() {
	extractResumeCmd.Flags().StringVarP(&resumePath, "resume", "r", "", "Path to resume PDF or text file")
	extractResumeCmd.Flags().StringSliceVar(&resumeVocabulary, "vocabulary", nil, "Skill terms to match instead of the built-in list")
	extractResumeCmd.Flags().IntVar(&resumeNameScanLines, "name-scan-lines", 0, "Number of leading lines searched for the candidate name")
	extractResumeCmd.Flags().BoolVar(&resumeJSON, "json", false, "Print the profile as JSON")

	rootCmd.AddCommand(extractResumeCmd)
}

func runExtractResume(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("resume") {
		cfg.Resume = resumePath
	}
	if cmd.Flags().Changed("vocabulary") {
		cfg.SkillVocabulary = resumeVocabulary
	}
	if cmd.Flags().Changed("name-scan-lines") {
		cfg.NameScanLines = resumeNameScanLines
	}
	if cfg.Resume == "" {
		return fmt.Errorf("--resume must be provided (via flag or config)")
	}

	profile, err := extractProfile(cfg)
	if err != nil {
		return err
	}

	if resumeJSON {
		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintCandidateProfile(profile)
	return nil
}

// extractProfile reads cfg.Resume and extracts the candidate profile from it.
func extractProfile(cfg config.Config) (*types.CandidateProfile, error) {
	data, err := os.ReadFile(cfg.Resume)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	profile, err := resume.NewExtractor(cfg.ResumeOptions()).ExtractDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume %s: %w", cfg.Resume, err)
	}
	return profile, nil
}
