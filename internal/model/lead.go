// Package model contains the core value types shared across the pipeline.
package model

import (
	"strings"
	"time"
)

// LeadRow is one input record from the leads spreadsheet. Rows are immutable
// once read and identified by Index, which is stable for the run.
type LeadRow struct {
	Index       int
	FirstName   string
	LastName    string
	LeadTitle   string
	CompanyName string
	Website     string
	LinkedInURL string
	JobTitle    string

	// Raw preserves the original cells in input column order so the output
	// file can reproduce them untouched.
	Raw []string
}

// FullName returns "First Last" with missing parts omitted.
func (r LeadRow) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// LinkedInSlug extracts the profile identifier from a LinkedIn URL
// (the segment after "/in/", with query params and trailing segments
// stripped). Returns "" when the URL has no /in/ path.
func (r LeadRow) LinkedInSlug() string {
	if !strings.Contains(r.LinkedInURL, "/in/") {
		return ""
	}
	slug := r.LinkedInURL[strings.LastIndex(r.LinkedInURL, "/in/")+len("/in/"):]
	slug = strings.TrimSuffix(slug, "/")
	if i := strings.IndexAny(slug, "?/"); i >= 0 {
		slug = slug[:i]
	}
	return slug
}

// RowStatus classifies the outcome of processing a single row.
type RowStatus string

const (
	StatusSuccess RowStatus = "Success"
	StatusFailed  RowStatus = "Failed"
	StatusFatal   RowStatus = "Fatal Error"
)

// RowResult holds the generated outreach artifacts for one row.
type RowResult struct {
	LinkedInRequest string
	ColdEmail       string
	Status          RowStatus
	ErrorDetail     string
	ProcessedAt     time.Time
}

// StatusCell renders the status column value, including the error detail for
// fatal rows.
func (r RowResult) StatusCell() string {
	if r.Status == StatusFatal && r.ErrorDetail != "" {
		return string(StatusFatal) + ": " + r.ErrorDetail
	}
	return string(r.Status)
}

// ProcessedAtCell renders the timestamp column value.
func (r RowResult) ProcessedAtCell() string {
	if r.ProcessedAt.IsZero() {
		return ""
	}
	return r.ProcessedAt.Format(time.RFC3339)
}

// RunSummary aggregates the outcome of a batch run.
type RunSummary struct {
	RunID      string
	Total      int
	Succeeded  int
	Failed     int
	CacheSize  int
	StartedAt  time.Time
	FinishedAt time.Time
}
