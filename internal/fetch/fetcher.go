package fetch

import (
	"context"
	"fmt"
	"log"
)

// Fetcher returns the readable text of a careers page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}

// PageFetcher fetches over HTTP and optionally falls back to a headless
// browser when the page yields too little text.
type PageFetcher struct {
	Options    *Options
	UseBrowser bool
	Verbose    bool
	Render     RenderFunc // nil uses headless Chrome
}

// NewPageFetcher creates a PageFetcher with default options.
func NewPageFetcher(useBrowser, verbose bool) *PageFetcher {
	return &PageFetcher{
		Options:    DefaultOptions(),
		UseBrowser: useBrowser,
		Verbose:    verbose,
	}
}

// Fetch retrieves the page and fills Result.Text with its main text.
func (f *PageFetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	result, err := URL(ctx, url, f.Options)
	if err != nil {
		return nil, err
	}
	if f.Verbose {
		log.Printf("[FETCH] %s: %d bytes, platform=%s", url, len(result.HTML), result.Platform)
	}

	contentSelectors := ContentSelectors(result.Platform)
	noiseSelectors := NoiseSelectors(result.Platform)

	text, err := ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return nil, &Error{URL: url, Message: "content extraction failed", Cause: err}
	}

	if f.UseBrowser && ShouldUseBrowser(text) {
		if f.Verbose {
			log.Printf("[FETCH] Content too short (%d chars < %d), rendering with browser", len(text), MinContentLength)
		}
		render := f.Render
		if render == nil {
			render = BrowserRenderer(f.Verbose)
		}
		html, renderErr := render(ctx, url)
		switch {
		case renderErr != nil:
			// keep the HTTP text
			if f.Verbose {
				log.Printf("[FETCH] Browser rendering failed: %v", renderErr)
			}
		default:
			rendered, extractErr := ExtractMainText(html, contentSelectors, noiseSelectors...)
			if extractErr == nil && len(rendered) > len(text) {
				result.HTML = html
				text = rendered
				result.Rendered = true
			}
		}
	}

	if text == "" {
		return nil, &Error{URL: url, Message: fmt.Sprintf("no readable text on page (%d bytes of HTML)", len(result.HTML))}
	}

	result.Text = text
	return result, nil
}
