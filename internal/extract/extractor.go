// Package extract turns a company website into a short structured summary.
//
// Two strategies exist. The guided strategy spends one generation call per
// page and, as a side effect, derives a reusable CSS selector schema. Once
// that schema is persisted, the cached strategy extracts for free with no
// generation call at all.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/llm"
	"github.com/sells-group/outreach-cli/internal/scrape"
)

const guidedPrompt = `Based on the company website content below, extract a concise 2-3 line summary of what the company does, who they are, and what they're looking for.

Return ONLY a valid JSON object of this exact shape:
{"summary": "your 2-3 line summary here"}

Website content:
---
%s
---`

const deriveSchemaPrompt = `You are given the HTML of a company website. Derive a reusable CSS extraction schema that selects a short company description from pages with this structure (prefer meta description tags, hero headings, or about sections).

Return ONLY a valid JSON object of this exact shape:
{"baseSelector": "css selector for the container", "fields": [{"name": "summary", "selector": "css selector", "type": "text"}]}

For meta tags use {"name": "summary", "selector": "meta[name=description]", "type": "attribute", "attribute": "content"}.

HTML:
---
%s
---`

// maxSchemaHTML bounds the HTML sent to schema derivation.
const maxSchemaHTML = 20000

// Extractor resolves its strategy once at construction: if the store holds a
// schema, extraction is free; otherwise each call pays one generation and
// tries to derive the schema for next time.
type Extractor struct {
	renderer  scrape.Renderer
	generator llm.Generator
	store     *SchemaStore
	schema    Schema
}

// New creates an Extractor. The store is consulted once here, not per call.
func New(renderer scrape.Renderer, generator llm.Generator, store *SchemaStore) (*Extractor, error) {
	schema, err := store.Load()
	if err != nil {
		return nil, err
	}
	if !schema.Empty() {
		zap.L().Info("extract: using cached schema, extraction is free",
			zap.Int("fields", len(schema.Fields)),
		)
	}
	return &Extractor{
		renderer:  renderer,
		generator: generator,
		store:     store,
		schema:    schema,
	}, nil
}

// CompanySummary fetches the company website and extracts a summary.
// Fetch and extraction failures never escape as errors — they come back as
// tagged results so a bad website cannot abort the row.
func (e *Extractor) CompanySummary(ctx context.Context, url string) Result {
	if !validURL(url) {
		zap.L().Warn("extract: invalid url, skipping", zap.String("url", url))
		return Result{Kind: KindInvalidURL}
	}

	page, err := e.renderer.Fetch(ctx, url, scrape.Directive{
		OnlyText:     true,
		ExcludeLinks: true,
	})
	if err != nil {
		zap.L().Warn("extract: fetch failed", zap.String("url", url), zap.Error(err))
		return Result{Kind: KindFailed}
	}

	if e.schema.Empty() {
		return e.extractGuided(ctx, page)
	}
	return e.extractWithSchema(page)
}

// extractGuided runs generation-backed extraction and derives a structural
// schema from the same page on success.
func (e *Extractor) extractGuided(ctx context.Context, page *scrape.Page) Result {
	zap.L().Info("extract: no cached schema, using guided extraction",
		zap.String("url", page.URL),
	)

	raw, err := e.generator.Generate(ctx, fmt.Sprintf(guidedPrompt, page.Markdown))
	if err != nil {
		zap.L().Warn("extract: guided extraction failed", zap.String("url", page.URL), zap.Error(err))
		return Result{Kind: KindFailed}
	}

	result := parseSummaryJSON(raw)
	if result.Kind == KindSummary {
		e.deriveAndCacheSchema(ctx, page)
	}
	return result
}

// extractWithSchema applies the cached CSS schema. No generation call.
func (e *Extractor) extractWithSchema(page *scrape.Page) Result {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		zap.L().Warn("extract: parse html for schema extraction", zap.Error(err))
		return Result{Kind: KindFailed}
	}

	root := doc.Selection
	if e.schema.BaseSelector != "" && e.schema.BaseSelector != "body" {
		if sel := doc.Find(e.schema.BaseSelector); sel.Length() > 0 {
			root = sel.First()
		}
	}

	for _, f := range e.schema.Fields {
		if f.Name != "summary" {
			continue
		}
		sel := root.Find(f.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		var val string
		if f.Type == "attribute" && f.Attribute != "" {
			val, _ = sel.Attr(f.Attribute)
		} else {
			val = sel.Text()
		}
		val = strings.TrimSpace(val)
		if val != "" {
			return Result{Kind: KindSummary, Summary: val}
		}
	}

	zap.L().Warn("extract: cached schema matched nothing", zap.String("url", page.URL))
	return Result{Kind: KindNoSummary}
}

// deriveAndCacheSchema asks the generator for a CSS schema and persists it.
// Failure only logs; the next row pays the guided cost again.
func (e *Extractor) deriveAndCacheSchema(ctx context.Context, page *scrape.Page) {
	html := page.HTML
	if len(html) > maxSchemaHTML {
		html = html[:maxSchemaHTML]
	}

	raw, err := e.generator.Generate(ctx, fmt.Sprintf(deriveSchemaPrompt, html))
	if err != nil {
		zap.L().Warn("extract: schema derivation failed", zap.Error(err))
		return
	}

	var schema Schema
	if err := json.Unmarshal([]byte(stripFences(raw)), &schema); err != nil {
		zap.L().Warn("extract: schema derivation returned unparseable json", zap.Error(err))
		return
	}
	if schema.Empty() {
		zap.L().Warn("extract: derived schema has no fields, not caching")
		return
	}

	if err := e.store.Save(schema); err != nil {
		zap.L().Warn("extract: persist derived schema", zap.Error(err))
		return
	}

	e.schema = schema
	zap.L().Info("extract: schema derived and cached, future extractions are free")
}

// parseSummaryJSON accepts either an object with a "summary" field or a
// non-empty array whose first element has one. Anything else is NoSummary.
func parseSummaryJSON(raw string) Result {
	cleaned := stripFences(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err == nil {
		if s, ok := obj["summary"].(string); ok && strings.TrimSpace(s) != "" {
			return Result{Kind: KindSummary, Summary: strings.TrimSpace(s)}
		}
		return Result{Kind: KindNoSummary}
	}

	var arr []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &arr); err == nil && len(arr) > 0 {
		if s, ok := arr[0]["summary"].(string); ok && strings.TrimSpace(s) != "" {
			return Result{Kind: KindSummary, Summary: strings.TrimSpace(s)}
		}
	}

	zap.L().Warn("extract: no summary field in extraction output")
	return Result{Kind: KindNoSummary}
}

// stripFences removes a markdown code fence wrapper, trying a ```json block
// first, then any fence, then the raw text.
func stripFences(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	return strings.TrimSpace(text)
}

// validURL accepts only absolute http(s) URLs.
func validURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
