package extract

// Kind tags an extraction outcome so callers never have to infer failure
// modes from magic strings.
type Kind int

const (
	// KindSummary means a usable summary was extracted.
	KindSummary Kind = iota
	// KindNoSummary means the page rendered but no summary field was found.
	KindNoSummary
	// KindInvalidURL means the URL was rejected before any network call.
	KindInvalidURL
	// KindFailed means the fetch or extraction errored.
	KindFailed
)

// Result is the outcome of a company extraction.
type Result struct {
	Kind    Kind
	Summary string
}

// Usable reports whether the result carries a summary worth caching.
func (r Result) Usable() bool {
	return r.Kind == KindSummary && r.Summary != ""
}
