package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/jonathan/cold-connect/internal/fetch"
	"github.com/jonathan/cold-connect/internal/ingestion"
	"github.com/jonathan/cold-connect/internal/outreach"
	"github.com/jonathan/cold-connect/internal/schemas"
	"github.com/jonathan/cold-connect/internal/types"
)

const (
	maxJSONBody   = 2 << 20
	maxResumeBody = 10 << 20
	resumeField   = "resume"
)

// NormalizeRequest is the body for /normalize
type NormalizeRequest struct {
	Text string `json:"text"`
}

// NormalizeResponse is the response for /normalize
type NormalizeResponse struct {
	Text     string              `json:"text"`
	Metadata *ingestion.Metadata `json:"metadata"`
}

// ResumeTextRequest is the JSON body accepted by /resume in place of an upload
type ResumeTextRequest struct {
	Text string `json:"text"`
}

// ExtractJobsRequest is the body for /jobs/extract. JobURL wins when both are set.
type ExtractJobsRequest struct {
	JobURL   string `json:"job_url,omitempty"`
	PageText string `json:"page_text,omitempty"`
}

// ExtractJobsResponse is the response for /jobs/extract
type ExtractJobsResponse struct {
	Metadata *ingestion.Metadata `json:"metadata"`
	Jobs     []types.JobPosting  `json:"jobs"`
}

// MailRequest is the body for /mail
type MailRequest struct {
	Job  types.JobPosting `json:"job"`
	User types.UserInfo   `json:"user"`
}

// MailResponse is the response for /mail
type MailResponse struct {
	Role  string `json:"role"`
	Email string `json:"email"`
}

// OutreachRequest is the body for /outreach and /outreach/stream
type OutreachRequest struct {
	JobURL     string         `json:"job_url,omitempty"`
	PageText   string         `json:"page_text,omitempty"`
	User       types.UserInfo `json:"user"`
	ResumeText string         `json:"resume_text,omitempty"`
}

// JobResultResponse is one posting and either its email or its error
type JobResultResponse struct {
	Job   types.JobPosting `json:"job"`
	Email string           `json:"email,omitempty"`
	Error string           `json:"error,omitempty"`
}

// OutreachResponse is the response for /outreach
type OutreachResponse struct {
	RunID      string                  `json:"run_id"`
	JobURL     string                  `json:"job_url,omitempty"`
	Metadata   *ingestion.Metadata     `json:"metadata,omitempty"`
	Profile    *types.CandidateProfile `json:"profile,omitempty"`
	Jobs       []JobResultResponse     `json:"jobs"`
	Generated  int                     `json:"generated"`
	Failed     int                     `json:"failed"`
	DurationMS int64                   `json:"duration_ms"`
}

// handleJobPostingsSchema serves the JSON Schema that extracted postings are checked against
func (s *Server) handleJobPostingsSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, schemas.JobPostingsSchema())
}

// handleNormalize returns the cleaned form of raw page text
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req NormalizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}

	cleaned := ingestion.Normalize(req.Text)
	meta := ingestion.NewMetadata(cleaned, "")
	meta.RawLength = len(req.Text)

	s.jsonResponse(w, http.StatusOK, NormalizeResponse{Text: cleaned, Metadata: meta})
}

// handleResume extracts a candidate profile from an uploaded PDF or from JSON text
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req ResumeTextRequest
		if err := decodeJSON(w, r, &req); err != nil {
			s.failure(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, s.resume.Extract(req.Text))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxResumeBody)
	if err := r.ParseMultipartForm(maxResumeBody); err != nil {
		s.failure(w, &ErrBadRequest{Message: "invalid multipart form", Cause: err})
		return
	}
	file, _, err := r.FormFile(resumeField)
	if err != nil {
		s.failure(w, &ErrBadRequest{Message: fmt.Sprintf("form field %q is required", resumeField), Cause: err})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.failure(w, &ErrBadRequest{Message: "failed to read upload", Cause: err})
		return
	}

	profile, err := s.resume.ExtractDocument(data)
	if err != nil {
		s.failure(w, &ErrUnreadableResume{Cause: err})
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleExtractJobs ingests a careers page and returns its postings
func (s *Server) handleExtractJobs(w http.ResponseWriter, r *http.Request) {
	var req ExtractJobsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}

	cleaned, meta, err := s.ingest(r.Context(), req.JobURL, req.PageText)
	if err != nil {
		s.failure(w, err)
		return
	}

	jobs, err := s.jobs.ExtractJobs(r.Context(), cleaned)
	if err != nil {
		s.failure(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ExtractJobsResponse{Metadata: meta, Jobs: jobs})
}

// handleMail drafts one email for a single posting
func (s *Server) handleMail(w http.ResponseWriter, r *http.Request) {
	var req MailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}

	content, err := s.writer.WriteMail(r.Context(), req.Job, req.User)
	if err != nil {
		s.failure(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, MailResponse{Role: req.Job.Role, Email: content})
}

// handleOutreach runs the whole pipeline and returns every email at once
func (s *Server) handleOutreach(w http.ResponseWriter, r *http.Request) {
	var req OutreachRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}

	if !s.runs.TryAcquire(1) {
		s.failure(w, ErrBusy)
		return
	}
	defer s.runs.Release(1)

	result, err := s.pipeline.Run(r.Context(), s.runOptions(req, nil))
	if err != nil {
		s.failure(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, newOutreachResponse(result))
}

// handleOutreachStream runs the pipeline and streams progress via SSE
func (s *Server) handleOutreachStream(w http.ResponseWriter, r *http.Request) {
	var req OutreachRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}

	if !s.runs.TryAcquire(1) {
		s.failure(w, ErrBusy)
		return
	}
	defer s.runs.Release(1)

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	onProgress := func(event outreach.ProgressEvent) {
		if err := sse.WriteEvent(EventStep, event); err != nil {
			log.Printf("Error writing SSE event: %v", err)
		}
	}

	result, err := s.pipeline.Run(r.Context(), s.runOptions(req, onProgress))
	if err != nil {
		log.Printf("[SERVER] Streaming outreach run failed: %v", err)
		sse.WriteError(HTTPStatus(err), errorMessage(err))
		return
	}

	sse.WriteComplete(newOutreachResponse(result))
}

func (s *Server) runOptions(req OutreachRequest, onProgress outreach.ProgressCallback) outreach.RunOptions {
	opts := outreach.RunOptions{
		JobURL:     strings.TrimSpace(req.JobURL),
		PageText:   req.PageText,
		User:       req.User,
		OnProgress: onProgress,
	}
	if strings.TrimSpace(req.ResumeText) != "" {
		opts.Profile = s.resume.Extract(req.ResumeText)
	}
	return opts
}

// ingest returns the cleaned text for a URL or for text supplied inline.
func (s *Server) ingest(ctx context.Context, jobURL, pageText string) (string, *ingestion.Metadata, error) {
	jobURL = strings.TrimSpace(jobURL)
	if jobURL != "" {
		if err := fetch.ValidateURL(jobURL); err != nil {
			return "", nil, &ErrBadRequest{Message: "invalid job_url", Cause: err}
		}
		return ingestion.IngestFromURL(ctx, s.fetcher, jobURL, s.verbose)
	}
	if pageText == "" {
		return "", nil, &ErrBadRequest{Message: "job_url or page_text is required"}
	}

	cleaned := ingestion.Normalize(pageText)
	if cleaned == "" {
		return "", nil, ingestion.ErrEmptyContent
	}
	meta := ingestion.NewMetadata(cleaned, "")
	meta.RawLength = len(pageText)
	return cleaned, meta, nil
}

func newOutreachResponse(result *outreach.Result) *OutreachResponse {
	resp := &OutreachResponse{
		RunID:      result.RunID,
		JobURL:     result.JobURL,
		Metadata:   result.Metadata,
		Profile:    result.Profile,
		Jobs:       make([]JobResultResponse, 0, len(result.Jobs)),
		Failed:     result.Failed(),
		DurationMS: result.Duration.Milliseconds(),
	}
	resp.Generated = len(result.Jobs) - resp.Failed

	for _, jr := range result.Jobs {
		item := JobResultResponse{Job: jr.Job}
		if jr.Err != nil {
			item.Error = jr.Err.Error()
		} else if jr.Email != nil {
			item.Email = jr.Email.Content
		}
		resp.Jobs = append(resp.Jobs, item)
	}
	return resp
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrBadRequest{Message: "request body is empty"}
		}
		return &ErrBadRequest{Message: "invalid request body", Cause: err}
	}
	return nil
}
