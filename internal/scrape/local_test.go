package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html>
<head><title>Acme Corp</title></head>
<body>
<nav><a href="/about">About</a></nav>
<h1>Acme Corp</h1>
<p>We make <a href="/anvils">anvils</a> and rocket skates for discerning coyotes everywhere.</p>
<script>console.log("tracking")</script>
<footer>Copyright Acme</footer>
<div class="cookie-banner">We use cookies</div>
</body>
</html>`

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchRendersMarkdown(t *testing.T) {
	var gotUA string
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(samplePage))
	})

	r := NewLocalRenderer(Options{UserAgent: "test-agent/1.0"})
	page, err := r.Fetch(context.Background(), srv.URL, Directive{})
	require.NoError(t, err)

	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Equal(t, "Acme Corp", page.Title)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, page.Markdown, "Acme Corp")
	assert.Contains(t, page.Markdown, "rocket skates")
}

func TestFetchOnlyTextStripsChrome(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(samplePage))
	})

	r := NewLocalRenderer(Options{})
	page, err := r.Fetch(context.Background(), srv.URL, Directive{OnlyText: true})
	require.NoError(t, err)

	assert.NotContains(t, page.HTML, "console.log")
	assert.NotContains(t, page.HTML, "Copyright Acme")
	assert.NotContains(t, page.HTML, "We use cookies")
	assert.Contains(t, page.HTML, "rocket skates")
}

func TestFetchExcludeLinksKeepsText(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(samplePage))
	})

	r := NewLocalRenderer(Options{})
	page, err := r.Fetch(context.Background(), srv.URL, Directive{OnlyText: true, ExcludeLinks: true})
	require.NoError(t, err)

	assert.NotContains(t, page.HTML, "<a ")
	assert.Contains(t, page.HTML, "anvils")
}

func TestFetchErrorStatus(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, strings.Repeat("not here ", 20), http.StatusNotFound)
	})

	r := NewLocalRenderer(Options{})
	_, err := r.Fetch(context.Background(), srv.URL, Directive{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchTinyBodyRejected(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html></html>"))
	})

	r := NewLocalRenderer(Options{})
	_, err := r.Fetch(context.Background(), srv.URL, Directive{})
	assert.Error(t, err)
}

func TestFetchBodyCapApplies(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body><p>" + strings.Repeat("word ", 10000) + "</p></body></html>"))
	})

	r := NewLocalRenderer(Options{MaxBodyBytes: 4096})
	page, err := r.Fetch(context.Background(), srv.URL, Directive{})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(page.HTML), 5000)
}

func TestFetchBlockedPage(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body>" + strings.Repeat(" ", 100) + "Checking your browser before accessing acme.test</body></html>"))
	})

	r := NewLocalRenderer(Options{})
	_, err := r.Fetch(context.Background(), srv.URL, Directive{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
}

func TestFetchUnreachable(t *testing.T) {
	r := NewLocalRenderer(Options{})
	_, err := r.Fetch(context.Background(), "http://127.0.0.1:1", Directive{})
	assert.Error(t, err)
}
