package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField(t *testing.T) {
	assert.Equal(t, "x", FoundField("x").Or("fallback"))
	assert.Equal(t, "", FoundField("").Or("fallback"))
	assert.Equal(t, "fallback", MissingField().Or("fallback"))
}

func TestCandidateProfile_Display(t *testing.T) {
	p := &CandidateProfile{Name: FoundField("Jane Doe")}
	assert.Equal(t, "Jane Doe", p.DisplayName())
	assert.Equal(t, EmailNotFound, p.DisplayEmail())
}

func TestCandidateProfile_MarshalJSON(t *testing.T) {
	p := CandidateProfile{Email: FoundField("jane@example.com")}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Name not found",
		"name_found": false,
		"email": "jane@example.com",
		"email_found": true,
		"skills": [],
		"experience": []
	}`, string(data))
}
