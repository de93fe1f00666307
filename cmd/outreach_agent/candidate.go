package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/cold-connect/internal/config"
	"github.com/jonathan/cold-connect/internal/outreach"
	"github.com/jonathan/cold-connect/internal/types"
)

// candidateFlags are the caller fields shared by write-mail and run.
type candidateFlags struct {
	name        string
	email       string
	company     string
	designation string
	experience  string
	skills      []string
}

func (f *candidateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Candidate name")
	cmd.Flags().StringVar(&f.email, "email", "", "Candidate email")
	cmd.Flags().StringVar(&f.company, "company", "", "Candidate's current company")
	cmd.Flags().StringVar(&f.designation, "designation", "", "Candidate's current designation")
	cmd.Flags().StringVar(&f.experience, "experience", "", `Experience entries, e.g. "2 years at Google, 1 year at Meta"`)
	cmd.Flags().StringSliceVar(&f.skills, "skills", nil, "Comma-separated skills")
}

// apply copies the flags that were set onto cfg.
func (f *candidateFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name = f.name
	}
	if flags.Changed("email") {
		cfg.Email = f.email
	}
	if flags.Changed("company") {
		cfg.Company = f.company
	}
	if flags.Changed("designation") {
		cfg.Designation = f.designation
	}
	if flags.Changed("experience") {
		cfg.Experience = f.experience
	}
	if flags.Changed("skills") {
		cfg.Skills = f.skills
	}
}

// userInfo converts the candidate fields of cfg into the composer's input.
func userInfo(cfg config.Config) types.UserInfo {
	return types.UserInfo{
		Name:        cfg.Name,
		Email:       cfg.Email,
		Company:     cfg.Company,
		Designation: cfg.Designation,
		Experience:  outreach.SplitExperience(cfg.Experience),
		Skills:      cfg.Skills,
	}
}
