// Package scrape fetches company web pages and prepares their content for
// extraction.
package scrape

import "context"

// Directive controls how a fetched page is filtered before extraction.
type Directive struct {
	// OnlyText drops scripts, styles, navigation, overlays and forms,
	// keeping textual content only.
	OnlyText bool

	// ExcludeLinks additionally removes anchor elements so navigation
	// noise does not leak into summaries.
	ExcludeLinks bool
}

// Page is the rendered result of a fetch.
type Page struct {
	URL        string
	Title      string
	HTML       string // filtered document markup, used for schema work
	Markdown   string // text content converted to markdown
	StatusCode int
}

// Renderer fetches a single URL and returns its filtered content.
type Renderer interface {
	Fetch(ctx context.Context, url string, d Directive) (*Page, error)
}
