package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cold-connect/internal/fetch"
	"github.com/jonathan/cold-connect/internal/llm"
	"github.com/jonathan/cold-connect/internal/server/ratelimit"
)

// fakeClient answers extraction calls with jobsJSON and email calls with email.
// Email prompts mentioning failRole fail.
type fakeClient struct {
	mu        sync.Mutex
	jobsJSON  string
	jobsErr   error
	email     string
	failRole  string
	mailCalls int
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mailCalls++
	if f.failRole != "" && strings.Contains(prompt, f.failRole) {
		return "", errors.New("upstream timeout")
	}
	return f.email, nil
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.jobsJSON, f.jobsErr
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

type stubFetcher struct {
	text string
	err  error
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (*fetch.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &fetch.Result{URL: url, Text: s.text, StatusCode: http.StatusOK, Platform: fetch.PlatformUnknown}, nil
}

type stubDecoder struct {
	text string
	err  error
}

func (d stubDecoder) Decode([]byte) (string, error) { return d.text, d.err }

func newTestServer(t *testing.T, client *fakeClient, opts Options) *Server {
	t.Helper()
	opts.Client = client
	if opts.Fetcher == nil {
		opts.Fetcher = &stubFetcher{text: "Careers at Acme. Backend Engineer. 3+ years. Go."}
	}
	if opts.RateLimit == nil {
		opts.RateLimit = &ratelimit.Config{Enabled: false}
	}
	s, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeClient{}, Options{})

	w := doJSON(t, s.Handler(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestJobPostingsSchemaEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeClient{}, Options{})

	w := doJSON(t, s.Handler(), http.MethodGet, "/schemas/job-postings", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/schema+json", w.Header().Get("Content-Type"))

	var schema map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &schema))
	assert.Equal(t, "JobPostings", schema["title"])
}

func TestRequestIDPassthrough(t *testing.T) {
	s := newTestServer(t, &fakeClient{}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &fakeClient{}, Options{})

	w := doJSON(t, s.Handler(), http.MethodOptions, "/outreach", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &fakeClient{}, Options{})

	w := doJSON(t, s.Handler(), http.MethodGet, "/outreach", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer(t, &fakeClient{}, Options{RateLimit: &ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{{Path: "/normalize", Method: "POST", Limit: 1, Window: time.Hour}},
	}})

	first := doJSON(t, s.Handler(), http.MethodPost, "/normalize", NormalizeRequest{Text: "hello"})
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := doJSON(t, s.Handler(), http.MethodPost, "/normalize", NormalizeRequest{Text: "hello"})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, "rate_limit_exceeded", resp["error"])

	health := doJSON(t, s.Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestRateLimitSkipsPreflight(t *testing.T) {
	s := newTestServer(t, &fakeClient{}, Options{RateLimit: &ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{{Path: "/normalize", Limit: 1, Window: time.Hour}},
	}})

	for i := 0; i < 3; i++ {
		w := doJSON(t, s.Handler(), http.MethodOptions, "/normalize", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}

	w := doJSON(t, s.Handler(), http.MethodPost, "/normalize", NormalizeRequest{Text: "hello"})
	assert.Equal(t, http.StatusOK, w.Code)

	limited := doJSON(t, s.Handler(), http.MethodPost, "/normalize", NormalizeRequest{Text: "hello"})
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "*", limited.Header().Get("Access-Control-Allow-Origin"))
}

func TestExtractClientID(t *testing.T) {
	s := &Server{}
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{remoteAddr: "10.1.2.3:5555", want: "10.1.2.3"},
		{remoteAddr: "[::1]:80", want: "::1"},
		{remoteAddr: "garbage", want: "garbage"},
	}
	for _, tt := range tests {
		t.Run(tt.remoteAddr, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			assert.Equal(t, tt.want, s.extractClientID(req))
		})
	}
}
