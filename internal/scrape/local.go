package scrape

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// LocalRenderer fetches HTML via net/http and filters it with goquery.
// No external rendering service involved.
type LocalRenderer struct {
	client       *http.Client
	converter    *md.Converter
	userAgent    string
	maxBodyBytes int64
}

// Options configures a LocalRenderer.
type Options struct {
	Timeout      time.Duration // whole-request timeout, default 30s
	MaxBodyBytes int64         // response body cap, default 512KB
	UserAgent    string
}

// NewLocalRenderer creates a LocalRenderer.
func NewLocalRenderer(opts Options) *LocalRenderer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 512 * 1024
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (compatible; OutreachBot/1.0)"
	}
	return &LocalRenderer{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		converter:    md.NewConverter("", true, nil),
		userAgent:    opts.UserAgent,
		maxBodyBytes: opts.MaxBodyBytes,
	}
}

// Fetch retrieves a URL, detects anti-bot blocks, strips non-content
// elements per the directive and converts the remainder to markdown.
func (l *LocalRenderer) Fetch(ctx context.Context, targetURL string, d Directive) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: create request")
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "scrape: read body")
	}

	if blocked, blockType := DetectBlock(resp, body); blocked {
		return nil, eris.Errorf("scrape: blocked (%s)", blockType)
	}
	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("scrape: status %d", resp.StatusCode)
	}
	if len(body) < 100 {
		return nil, eris.New("scrape: empty page")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, eris.Wrap(err, "scrape: parse html")
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	if d.OnlyText {
		stripNonContent(doc)
	}
	if d.ExcludeLinks {
		doc.Find("a").Each(func(_ int, s *goquery.Selection) {
			s.ReplaceWithHtml(s.Text())
		})
	}

	html, err := doc.Find("body").Html()
	if err != nil || strings.TrimSpace(html) == "" {
		html, _ = doc.Html()
	}

	markdown, err := l.converter.ConvertString(html)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: convert to markdown")
	}

	return &Page{
		URL:        targetURL,
		Title:      title,
		HTML:       html,
		Markdown:   strings.TrimSpace(markdown),
		StatusCode: resp.StatusCode,
	}, nil
}

// overlaySelectors matches cookie banners, modals and similar overlay chrome.
var overlaySelectors = []string{
	"script", "style", "noscript", "nav", "footer", "form", "iframe",
	"[role=dialog]", "[role=banner]", "[aria-modal=true]",
	".modal", ".overlay", ".popup", ".cookie-banner", "#cookie-banner",
}

// stripNonContent removes non-textual and overlay elements in place.
func stripNonContent(doc *goquery.Document) {
	for _, sel := range overlaySelectors {
		doc.Find(sel).Remove()
	}
}
