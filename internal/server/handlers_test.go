package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cold-connect/internal/parsing"
	"github.com/jonathan/cold-connect/internal/resume"
	"github.com/jonathan/cold-connect/internal/types"
)

const twoJobs = `[
  {"role": "Backend Engineer", "experience": "3+ years", "skills": ["golang"], "description": "Build APIs"},
  {"role": "Data Scientist", "experience": "2 years", "skills": "Python", "description": "Train models"}
]`

func testUser() types.UserInfo {
	return types.UserInfo{
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Company:     "Initech",
		Designation: "Software Engineer",
		Experience:  []string{"2 years at Initech"},
		Skills:      []string{"Go"},
	}
}

// outreachBody mirrors OutreachResponse with the profile left as raw JSON.
type outreachBody struct {
	RunID     string              `json:"run_id"`
	Profile   map[string]any      `json:"profile"`
	Jobs      []JobResultResponse `json:"jobs"`
	Generated int                 `json:"generated"`
	Failed    int                 `json:"failed"`
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHandleNormalize(t *testing.T) {
	s := newTestServer(t, &fakeClient{}, Options{})

	w := doJSON(t, s.Handler(), http.MethodPost, "/normalize",
		NormalizeRequest{Text: "<p>Senior   Go  Engineer</p><script>track()</script>"})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[NormalizeResponse](t, w)
	assert.Equal(t, "Senior Go Engineer", resp.Text)
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, len("Senior Go Engineer"), resp.Metadata.CleanedLength)
}

func TestHandleNormalize_BadBody(t *testing.T) {
	s := newTestServer(t, &fakeClient{}, Options{})

	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "malformed", body: `{"text":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s.Handler(), http.MethodPost, "/normalize", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleResume_JSON(t *testing.T) {
	s := newTestServer(t, &fakeClient{}, Options{
		Resume: resume.NewExtractor(resume.Options{Vocabulary: []string{"Python", "Docker", "Rust"}}),
	})

	w := doJSON(t, s.Handler(), http.MethodPost, "/resume",
		ResumeTextRequest{Text: "Jane Doe\njane@example.com\nSkills: Python, Docker"})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, "Jane Doe", resp["name"])
	assert.Equal(t, true, resp["name_found"])
	assert.Equal(t, "jane@example.com", resp["email"])
	assert.Equal(t, []any{"Python", "Docker"}, resp["skills"])
}

func multipartRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "resume.pdf")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleResume_Upload(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		decoder    stubDecoder
		wantStatus int
		wantName   string
	}{
		{
			name:       "decoded upload",
			field:      "resume",
			decoder:    stubDecoder{text: "John Smith\njohn@example.com"},
			wantStatus: http.StatusOK,
			wantName:   "John Smith",
		},
		{
			name:       "missing form field",
			field:      "file",
			decoder:    stubDecoder{text: "unused"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "undecodable document",
			field:      "resume",
			decoder:    stubDecoder{err: resume.ErrUnreadableDocument},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &fakeClient{}, Options{
				Resume: resume.NewExtractor(resume.Options{Decoder: tt.decoder}),
			})

			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, multipartRequest(t, tt.field, []byte("%PDF-1.4")))

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantName != "" {
				resp := decodeBody[map[string]any](t, w)
				assert.Equal(t, tt.wantName, resp["name"])
			}
		})
	}
}

func TestHandleExtractJobs(t *testing.T) {
	s := newTestServer(t, &fakeClient{jobsJSON: twoJobs}, Options{})

	w := doJSON(t, s.Handler(), http.MethodPost, "/jobs/extract",
		ExtractJobsRequest{PageText: "Backend Engineer ... Data Scientist ..."})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[ExtractJobsResponse](t, w)
	require.Len(t, resp.Jobs, 2)
	assert.Equal(t, "Backend Engineer", resp.Jobs[0].Role)
	assert.Equal(t, []string{"Go"}, resp.Jobs[0].Skills)
	assert.Equal(t, "Data Scientist", resp.Jobs[1].Role)
	assert.Equal(t, []string{"Python"}, resp.Jobs[1].Skills)
}

func TestHandleExtractJobs_FromURL(t *testing.T) {
	s := newTestServer(t, &fakeClient{jobsJSON: `{"role": "SRE"}`}, Options{})

	w := doJSON(t, s.Handler(), http.MethodPost, "/jobs/extract",
		ExtractJobsRequest{JobURL: "https://boards.example.com/acme"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[ExtractJobsResponse](t, w)
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "SRE", resp.Jobs[0].Role)
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, "https://boards.example.com/acme", resp.Metadata.URL)
}

func TestHandleExtractJobs_Errors(t *testing.T) {
	tests := []struct {
		name       string
		client     *fakeClient
		fetcher    *stubFetcher
		req        ExtractJobsRequest
		wantStatus int
		wantError  string
	}{
		{
			name:       "no source",
			client:     &fakeClient{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid url",
			client:     &fakeClient{},
			req:        ExtractJobsRequest{JobURL: "ftp://example.com/jobs"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "page without text",
			client:     &fakeClient{},
			req:        ExtractJobsRequest{PageText: "<div>   </div>"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "fetch failure",
			client:     &fakeClient{},
			fetcher:    &stubFetcher{err: errors.New("connection refused")},
			req:        ExtractJobsRequest{JobURL: "https://example.com/careers"},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "model failure",
			client:     &fakeClient{jobsErr: errors.New("quota exceeded")},
			req:        ExtractJobsRequest{PageText: "Jobs"},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unparseable reply",
			client:     &fakeClient{jobsJSON: "Sorry, the page is too long to read."},
			req:        ExtractJobsRequest{PageText: "Jobs"},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  parsing.ParseFailureMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{}
			if tt.fetcher != nil {
				opts.Fetcher = tt.fetcher
			}
			s := newTestServer(t, tt.client, opts)

			w := doJSON(t, s.Handler(), http.MethodPost, "/jobs/extract", tt.req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantError != "" {
				resp := decodeBody[map[string]string](t, w)
				assert.Equal(t, tt.wantError, resp["error"])
			}
		})
	}
}

func TestHandleMail(t *testing.T) {
	client := &fakeClient{email: "Subject: Hello\n\nDear hiring team,"}
	s := newTestServer(t, client, Options{})

	w := doJSON(t, s.Handler(), http.MethodPost, "/mail", MailRequest{
		Job:  types.JobPosting{Role: "Backend Engineer", Skills: []string{"Go"}},
		User: testUser(),
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[MailResponse](t, w)
	assert.Equal(t, "Backend Engineer", resp.Role)
	assert.Equal(t, "Subject: Hello\n\nDear hiring team,", resp.Email)
}

func TestHandleMail_Errors(t *testing.T) {
	missingName := testUser()
	missingName.Name = "  "

	tests := []struct {
		name       string
		client     *fakeClient
		user       types.UserInfo
		wantStatus int
		wantCalls  int
	}{
		{
			name:       "missing name",
			client:     &fakeClient{},
			user:       missingName,
			wantStatus: http.StatusBadRequest,
			wantCalls:  0,
		},
		{
			name:       "model failure",
			client:     &fakeClient{failRole: "Backend Engineer"},
			user:       testUser(),
			wantStatus: http.StatusBadGateway,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.client, Options{})

			w := doJSON(t, s.Handler(), http.MethodPost, "/mail", MailRequest{
				Job:  types.JobPosting{Role: "Backend Engineer"},
				User: tt.user,
			})

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCalls, tt.client.mailCalls)
		})
	}
}

func TestHandleOutreach(t *testing.T) {
	client := &fakeClient{jobsJSON: twoJobs, email: "Hi there", failRole: "Data Scientist"}
	s := newTestServer(t, client, Options{})

	w := doJSON(t, s.Handler(), http.MethodPost, "/outreach", OutreachRequest{
		PageText:   "Backend Engineer and Data Scientist openings",
		User:       testUser(),
		ResumeText: "Jane Doe\njane@example.com\nI write Python",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[outreachBody](t, w)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 1, resp.Generated)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Jobs, 2)

	assert.Equal(t, "Backend Engineer", resp.Jobs[0].Job.Role)
	assert.Equal(t, "Hi there", resp.Jobs[0].Email)
	assert.Empty(t, resp.Jobs[0].Error)

	assert.Equal(t, "Data Scientist", resp.Jobs[1].Job.Role)
	assert.Empty(t, resp.Jobs[1].Email)
	assert.Contains(t, resp.Jobs[1].Error, "upstream timeout")

	require.NotNil(t, resp.Profile)
	assert.Equal(t, "jane@example.com", resp.Profile["email"])
}

func TestHandleOutreach_ValidationBeforeModel(t *testing.T) {
	client := &fakeClient{jobsJSON: twoJobs, email: "Hi"}
	s := newTestServer(t, client, Options{})

	user := testUser()
	user.Company = ""
	w := doJSON(t, s.Handler(), http.MethodPost, "/outreach", OutreachRequest{PageText: "Jobs", User: user})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody[map[string]string](t, w)
	assert.Contains(t, resp["error"], "company")
	assert.Equal(t, 0, client.mailCalls)
}

func TestHandleOutreach_Busy(t *testing.T) {
	s := newTestServer(t, &fakeClient{jobsJSON: twoJobs, email: "Hi"}, Options{MaxConcurrentRuns: 1})
	require.True(t, s.runs.TryAcquire(1))
	defer s.runs.Release(1)

	w := doJSON(t, s.Handler(), http.MethodPost, "/outreach", OutreachRequest{PageText: "Jobs", User: testUser()})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleOutreachStream(t *testing.T) {
	client := &fakeClient{jobsJSON: twoJobs, email: "Hi there"}
	s := newTestServer(t, client, Options{})

	w := doJSON(t, s.Handler(), http.MethodPost, "/outreach/stream",
		OutreachRequest{PageText: "Openings", User: testUser()})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	// ingest, extract, two emails and done
	assert.Equal(t, 5, strings.Count(body, "event: step\n"))
	assert.Equal(t, 1, strings.Count(body, "event: complete\n"))
	assert.Less(t, strings.Index(body, `"step":"ingest_page"`), strings.Index(body, `"step":"extract_jobs"`))
	assert.Less(t, strings.LastIndex(body, "event: step\n"), strings.Index(body, "event: complete\n"))
	assert.Contains(t, body, `"generated":2`)
}

func TestHandleOutreachStream_Error(t *testing.T) {
	client := &fakeClient{jobsJSON: "not json at all"}
	s := newTestServer(t, client, Options{})

	w := doJSON(t, s.Handler(), http.MethodPost, "/outreach/stream",
		OutreachRequest{PageText: "Openings", User: testUser()})

	body := w.Body.String()
	assert.Contains(t, body, "event: error\n")
	assert.Contains(t, body, `"status":422`)
	assert.Contains(t, body, parsing.ParseFailureMessage)
	assert.NotContains(t, body, "event: complete")
}
