package research

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/pkg/serpapi"
)

type fakeSearch struct {
	resp    *serpapi.SearchResponse
	errs    []error
	calls   int
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, req serpapi.SearchRequest) (*serpapi.SearchResponse, error) {
	i := f.calls
	f.calls++
	f.queries = append(f.queries, req.Query)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.resp, nil
}

func newResearcher(client serpapi.Client) *PersonResearcher {
	return NewPersonResearcher(
		client,
		resilience.NewPacer(0),
		resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: 1, MaxBackoff: 1},
		5,
	)
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name string
		row  model.LeadRow
		want string
	}{
		{
			"full name and company",
			model.LeadRow{FirstName: "Ada", LastName: "Lovelace", CompanyName: "Acme"},
			"Ada Lovelace Acme",
		},
		{
			"slug fallback",
			model.LeadRow{LinkedInURL: "https://linkedin.com/in/ada-l", CompanyName: "Acme"},
			"ada-l Acme",
		},
		{
			"name wins over slug",
			model.LeadRow{FirstName: "Ada", LinkedInURL: "https://linkedin.com/in/other", CompanyName: "Acme"},
			"Ada Acme",
		},
		{
			"no identity",
			model.LeadRow{CompanyName: "Acme"},
			"",
		},
		{
			"no company",
			model.LeadRow{FirstName: "Ada", LastName: "Lovelace"},
			"Ada Lovelace",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Query(tt.row))
		})
	}
}

func TestLookupEmptyQuerySkipsCall(t *testing.T) {
	client := &fakeSearch{}
	r := newResearcher(client)

	info, err := r.Lookup(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, info)
	assert.Equal(t, 0, client.calls)
}

func TestLookupFormatsResults(t *testing.T) {
	client := &fakeSearch{resp: &serpapi.SearchResponse{
		OrganicResults: []serpapi.OrganicResult{
			{Title: "Ada Lovelace - CTO", Snippet: "Leads engineering at Acme."},
			{Title: "Acme engineering blog", Snippet: "Posts by Ada."},
			{Title: "No snippet here", Snippet: ""},
		},
	}}
	r := newResearcher(client)

	info, err := r.Lookup(context.Background(), "Ada Lovelace Acme")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace - CTO: Leads engineering at Acme.\nAcme engineering blog: Posts by Ada.", info)
	assert.Equal(t, []string{"Ada Lovelace Acme"}, client.queries)
}

func TestLookupNoResults(t *testing.T) {
	client := &fakeSearch{resp: &serpapi.SearchResponse{}}
	r := newResearcher(client)

	info, err := r.Lookup(context.Background(), "Nobody Nowhere")
	require.NoError(t, err)
	assert.Equal(t, NotFound, info)
}

func TestLookupNoUsableSnippets(t *testing.T) {
	client := &fakeSearch{resp: &serpapi.SearchResponse{
		OrganicResults: []serpapi.OrganicResult{{Title: "title only"}, {Snippet: "snippet only"}},
	}}
	r := newResearcher(client)

	info, err := r.Lookup(context.Background(), "Ada")
	require.NoError(t, err)
	assert.Equal(t, NotFound, info)
}

func TestLookupRetriesTransientErrors(t *testing.T) {
	client := &fakeSearch{
		resp: &serpapi.SearchResponse{
			OrganicResults: []serpapi.OrganicResult{{Title: "T", Snippet: "S"}},
		},
		errs: []error{
			resilience.NewTransientError(errors.New("429"), 429),
			resilience.NewTransientError(errors.New("503"), 503),
		},
	}
	r := newResearcher(client)

	info, err := r.Lookup(context.Background(), "Ada")
	require.NoError(t, err)
	assert.Equal(t, "T: S", info)
	assert.Equal(t, 3, client.calls)
}

func TestLookupRetriesAnyError(t *testing.T) {
	// Every failure gets the full attempt budget, not just transient ones.
	client := &fakeSearch{
		resp: &serpapi.SearchResponse{
			OrganicResults: []serpapi.OrganicResult{{Title: "T", Snippet: "S"}},
		},
		errs: []error{
			errors.New("unexpected status 400"),
			errors.New("malformed payload"),
		},
	}
	r := newResearcher(client)

	info, err := r.Lookup(context.Background(), "Ada")
	require.NoError(t, err)
	assert.Equal(t, "T: S", info)
	assert.Equal(t, 3, client.calls)
}

func TestLookupErrorExhaustsAttempts(t *testing.T) {
	client := &fakeSearch{errs: []error{
		errors.New("invalid api key"),
		errors.New("invalid api key"),
		errors.New("invalid api key"),
	}}
	r := newResearcher(client)

	_, err := r.Lookup(context.Background(), "Ada")
	require.Error(t, err)
	assert.Equal(t, 3, client.calls)
}
