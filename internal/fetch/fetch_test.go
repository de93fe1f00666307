package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Careers</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Careers</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, PlatformUnknown, result.Platform)
}

func TestURL_InvalidURL(t *testing.T) {
	tests := []string{"not-a-valid-url", "ftp://example.com/jobs", "https://"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := URL(context.Background(), input, nil)
			require.Error(t, err)

			var fetchErr *Error
			assert.ErrorAs(t, err, &fetchErr)
			assert.Contains(t, err.Error(), "invalid URL")
		})
	}
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractMainText_DropsChrome(t *testing.T) {
	html := `
	<html>
		<head><style>.x { color: red; }</style></head>
		<body>
			<nav>Navigation</nav>
			<main>
				<h1>Open Roles</h1>
				<p>Backend Engineer</p>
				<script>window.track = true;</script>
			</main>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, CareersSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Open Roles")
	assert.Contains(t, text, "Backend Engineer")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
	assert.NotContains(t, text, "window.track")
	assert.NotContains(t, text, "color: red")
}

func TestExtractMainText_KeepsEveryListingBlock(t *testing.T) {
	html := `
	<html><body>
		<div class="posting"><h5>Data Engineer</h5><span>Remote</span></div>
		<div class="posting"><h5>ML Engineer</h5><span>Berlin</span></div>
	</body></html>`

	text, err := ExtractMainText(html, ContentSelectors(PlatformLever))
	require.NoError(t, err)
	assert.Contains(t, text, "Data Engineer")
	assert.Contains(t, text, "ML Engineer")
}

func TestExtractMainText_SeparatesBlocks(t *testing.T) {
	html := `<html><body><main><h2>Requirements</h2><ul><li>Go</li><li>SQL</li></ul></main></body></html>`

	text, err := ExtractMainText(html, CareersSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Requirements\nGo\nSQL", text)
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	html := `<html><body><div>Some content here.</div></body></html>`

	text, err := ExtractMainText(html, []string{".does-not-exist"})
	require.NoError(t, err)
	assert.Contains(t, text, "Some content here")
}

func TestExtractMainText_NoiseSelectors(t *testing.T) {
	html := `
	<html><body><main>
		<p>Site Reliability Engineer</p>
		<form id="application-form"><label>Upload CV</label></form>
		<div class="eeo-statement">Equal opportunity employer</div>
	</main></body></html>`

	text, err := ExtractMainText(html, CareersSelectors(), NoiseSelectors(PlatformUnknown)...)
	require.NoError(t, err)
	assert.Contains(t, text, "Site Reliability Engineer")
	assert.NotContains(t, text, "Upload CV")
	assert.NotContains(t, text, "Equal opportunity")
}
