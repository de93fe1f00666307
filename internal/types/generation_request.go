package types

import "github.com/go-playground/validator/v10"

// UserInfo holds the caller-supplied candidate fields for one email request.
type UserInfo struct {
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required"`
	Company     string   `json:"company" validate:"required"`
	Designation string   `json:"designation" validate:"required"`
	Experience  []string `json:"experience"`
	Skills      []string `json:"skills"`
}

// Validate validates the UserInfo using the validator.
func (u *UserInfo) Validate() error {
	validate := validator.New()
	return validate.Struct(u)
}

// GenerationRequest is the flattened payload rendered into the email prompt.
type GenerationRequest struct {
	JobDescription string
	Name           string
	Email          string
	Company        string
	Designation    string
	Experience     []string
	Skills         []string
}

// GeneratedEmail is the raw model text handed to the display layer.
type GeneratedEmail struct {
	Content string `json:"content"`
}
