// Package research resolves public information about a lead via web search.
package research

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/pkg/serpapi"
)

// NotFound is returned when the search ran but produced nothing usable.
// It is a defined outcome, not an error.
const NotFound = "No information found."

// PersonResearcher looks up a lead through the search collaborator.
type PersonResearcher struct {
	client      serpapi.Client
	pacer       *resilience.Pacer
	retry       resilience.RetryConfig
	resultCount int
}

// NewPersonResearcher creates a researcher. The pacer is shared with every
// other caller of the search service.
func NewPersonResearcher(client serpapi.Client, pacer *resilience.Pacer, retry resilience.RetryConfig, resultCount int) *PersonResearcher {
	if resultCount <= 0 {
		resultCount = 5
	}
	return &PersonResearcher{
		client:      client,
		pacer:       pacer,
		retry:       retry,
		resultCount: resultCount,
	}
}

// Query derives the search query from the row's identity fields: full name
// when present, else the LinkedIn profile slug, combined with the company
// name. Empty means research should be skipped for this row.
func Query(row model.LeadRow) string {
	identity := row.FullName()
	if identity == "" {
		identity = row.LinkedInSlug()
	}
	if identity == "" {
		return ""
	}
	return strings.TrimSpace(identity + " " + strings.TrimSpace(row.CompanyName))
}

// Lookup searches for the lead and formats the organic results as
// "Title: Snippet" lines. An empty query skips the call entirely.
func (r *PersonResearcher) Lookup(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", nil
	}

	retry := r.retry
	retry.ShouldRetry = resilience.RetryAll
	retry.OnRetry = resilience.RetryLogger("serpapi", "search")

	resp, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*serpapi.SearchResponse, error) {
		if err := r.pacer.Wait(ctx); err != nil {
			return nil, err
		}
		return r.client.Search(ctx, serpapi.SearchRequest{
			Query: query,
			Num:   r.resultCount,
		})
	})
	if err != nil {
		return "", eris.Wrap(err, "research: person lookup")
	}

	if len(resp.OrganicResults) == 0 {
		zap.L().Warn("research: no organic results", zap.String("query", query))
		return NotFound, nil
	}

	var lines []string
	for _, res := range resp.OrganicResults {
		title := strings.TrimSpace(res.Title)
		snippet := strings.TrimSpace(res.Snippet)
		if title != "" && snippet != "" {
			lines = append(lines, title+": "+snippet)
		}
	}

	if len(lines) == 0 {
		zap.L().Warn("research: results carried no usable snippets", zap.String("query", query))
		return NotFound, nil
	}

	return strings.Join(lines, "\n"), nil
}
