// Package outreach composes generation requests from a job posting and the
// candidate's details, drafts outreach emails, and runs the end-to-end
// careers-page pipeline.
package outreach

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cold-connect/internal/prompts"
	"github.com/jonathan/cold-connect/internal/types"
)

// ExperienceSeparator splits free-text experience into entries.
const ExperienceSeparator = ", "

// Compose validates the caller fields and flattens them with the job into a
// generation request. Name, email, company and designation are required;
// experience and skills default to empty lists.
func Compose(job types.JobPosting, info types.UserInfo) (*types.GenerationRequest, error) {
	info = trimUserInfo(info)
	if err := ValidateUserInfo(info); err != nil {
		return nil, err
	}

	return &types.GenerationRequest{
		JobDescription: job.String(),
		Name:           info.Name,
		Email:          info.Email,
		Company:        info.Company,
		Designation:    info.Designation,
		Experience:     info.Experience,
		Skills:         info.Skills,
	}, nil
}

// ValidateUserInfo reports the first missing required field as a *ValidationError.
func ValidateUserInfo(info types.UserInfo) error {
	err := info.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := strings.ToLower(fieldErrs[0].Field())
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	return &ValidationError{Message: err.Error()}
}

// BuildEmailPrompt renders a generation request into the email prompt.
func BuildEmailPrompt(req *types.GenerationRequest) string {
	return prompts.MustRender(prompts.OutreachFile, prompts.WriteEmail, map[string]string{
		"JobDescription": req.JobDescription,
		"Name":           req.Name,
		"Email":          req.Email,
		"Company":        req.Company,
		"Designation":    req.Designation,
		"Experience":     strings.Join(req.Experience, ExperienceSeparator),
		"Skills":         strings.Join(req.Skills, ExperienceSeparator),
	})
}

// SplitExperience turns a free-text experience field such as
// "2 years at Google, 1 year at Meta" into entries.
func SplitExperience(text string) []string {
	return cleanList(strings.Split(text, ExperienceSeparator))
}

// MergeProfile folds a resume profile into caller fields. Resume skills are
// appended after the caller's; resume experience is used only when the caller
// gave none. Caller name and email always win.
func MergeProfile(info types.UserInfo, profile *types.CandidateProfile) types.UserInfo {
	if profile == nil {
		return info
	}

	out := info
	out.Skills = mergeUnique(info.Skills, profile.Skills)
	if len(cleanList(info.Experience)) == 0 {
		out.Experience = append([]string{}, profile.Experience...)
	}
	return out
}

func trimUserInfo(info types.UserInfo) types.UserInfo {
	return types.UserInfo{
		Name:        strings.TrimSpace(info.Name),
		Email:       strings.TrimSpace(info.Email),
		Company:     strings.TrimSpace(info.Company),
		Designation: strings.TrimSpace(info.Designation),
		Experience:  cleanList(info.Experience),
		Skills:      cleanList(info.Skills),
	}
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func mergeUnique(first, second []string) []string {
	out := make([]string, 0, len(first)+len(second))
	seen := make(map[string]bool, len(first)+len(second))
	for _, list := range [][]string{first, second} {
		for _, item := range list {
			item = strings.TrimSpace(item)
			key := strings.ToLower(item)
			if item == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, item)
		}
	}
	return out
}
