package outreach

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/cache"
	"github.com/sells-group/outreach-cli/internal/extract"
	"github.com/sells-group/outreach-cli/internal/llm"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/research"
	"github.com/sells-group/outreach-cli/internal/resilience"
)

// PersonLookup resolves public information about a lead.
type PersonLookup interface {
	Lookup(ctx context.Context, query string) (string, error)
}

// CompanySummarizer extracts a company summary from a website.
type CompanySummarizer interface {
	CompanySummary(ctx context.Context, url string) extract.Result
}

// Sentinel cell values written when a row has nothing to generate from.
// The row still counts as processed.
const (
	NoContent     = "No content available"
	NoCompanyInfo = "No company info available"
)

// RowProcessor turns one lead row into outreach content. Failures are
// contained: every path returns a RowResult, never an error, so one bad row
// cannot stop the batch.
type RowProcessor struct {
	cache      *cache.Cache
	researcher PersonLookup
	extractor  CompanySummarizer
	generator  llm.Generator
	parser     *Parser
	pacer      *resilience.Pacer
	retry      resilience.RetryConfig
	style      Style
	resume     string
	provider   string
}

// ProcessorOptions wires the collaborators of a RowProcessor.
type ProcessorOptions struct {
	Cache      *cache.Cache
	Researcher PersonLookup
	Extractor  CompanySummarizer
	Generator  llm.Generator
	Parser     *Parser
	Pacer      *resilience.Pacer
	Retry      resilience.RetryConfig
	Style      Style
	Resume     string
	Provider   string
}

// NewRowProcessor creates a processor.
func NewRowProcessor(opts ProcessorOptions) *RowProcessor {
	return &RowProcessor{
		cache:      opts.Cache,
		researcher: opts.Researcher,
		extractor:  opts.Extractor,
		generator:  opts.Generator,
		parser:     opts.Parser,
		pacer:      opts.Pacer,
		retry:      opts.Retry,
		style:      opts.Style,
		resume:     opts.Resume,
		provider:   opts.Provider,
	}
}

// Process handles one row end to end: person research (delimiter style
// only), company summary via cache or extraction, then generation and
// parsing. Generation is skipped entirely when no context was gathered.
func (p *RowProcessor) Process(ctx context.Context, row model.LeadRow) model.RowResult {
	zap.L().Info("processing row",
		zap.Int("row", row.Index),
		zap.String("name", row.FullName()),
		zap.String("company", row.CompanyName),
	)

	personInfo := ""
	if p.style == StyleDelimiter {
		info, err := p.researchPerson(ctx, row)
		if err != nil {
			return failedResult(err)
		}
		personInfo = info
	}

	companyInfo := p.companySummary(ctx, row)

	if sentinel, skip := p.skipGeneration(personInfo, companyInfo); skip {
		zap.L().Warn("no context gathered, skipping generation", zap.Int("row", row.Index))
		return model.RowResult{
			LinkedInRequest: sentinel,
			ColdEmail:       sentinel,
			Status:          model.StatusSuccess,
		}
	}

	prompt := BuildPrompt(p.style, PromptInput{
		Resume:      p.resume,
		LeadTitle:   row.LeadTitle,
		CompanyName: row.CompanyName,
		JobTitle:    row.JobTitle,
		PersonInfo:  personInfo,
		CompanyInfo: companyInfo,
	})

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return failedResult(err)
	}

	linkedin, email := p.parser.Parse(raw)
	zap.L().Info("row processed", zap.Int("row", row.Index))
	return model.RowResult{
		LinkedInRequest: linkedin,
		ColdEmail:       email,
		Status:          model.StatusSuccess,
	}
}

func (p *RowProcessor) researchPerson(ctx context.Context, row model.LeadRow) (string, error) {
	query := research.Query(row)
	if query == "" {
		zap.L().Warn("row has no identity fields, skipping person research", zap.Int("row", row.Index))
		return "", nil
	}
	return p.researcher.Lookup(ctx, query)
}

// companySummary returns the cached summary or extracts a fresh one. A fresh
// summary is cached and the cache is persisted immediately so a later crash
// cannot lose paid work. Extraction problems yield "" and the row goes on.
func (p *RowProcessor) companySummary(ctx context.Context, row model.LeadRow) string {
	company := strings.TrimSpace(row.CompanyName)
	if company == "" {
		return ""
	}

	if summary, ok := p.cache.Get(company); ok {
		zap.L().Info("company summary cache hit", zap.String("company", company))
		return summary
	}

	if row.Website == "" {
		zap.L().Warn("no company website provided", zap.Int("row", row.Index), zap.String("company", company))
		return ""
	}

	result := p.extractor.CompanySummary(ctx, row.Website)
	if !result.Usable() {
		return ""
	}

	p.cache.Put(company, result.Summary)
	if err := p.cache.Save(); err != nil {
		zap.L().Warn("persist company cache", zap.Error(err))
	}
	return result.Summary
}

// skipGeneration decides whether there is enough gathered context to prompt
// with. The delimiter style can lean on either source; the JSON style only
// references the company.
func (p *RowProcessor) skipGeneration(personInfo, companyInfo string) (string, bool) {
	if p.style == StyleJSON {
		if strings.TrimSpace(companyInfo) == "" {
			return NoCompanyInfo, true
		}
		return "", false
	}
	if strings.TrimSpace(personInfo) == "" && strings.TrimSpace(companyInfo) == "" {
		return NoContent, true
	}
	return "", false
}

func (p *RowProcessor) generate(ctx context.Context, prompt string) (string, error) {
	retry := p.retry
	retry.ShouldRetry = resilience.RetryAll
	retry.OnRetry = resilience.RetryLogger(p.provider, "generate")

	return resilience.DoVal(ctx, retry, func(ctx context.Context) (string, error) {
		if err := p.pacer.Wait(ctx); err != nil {
			return "", err
		}
		return p.generator.Generate(ctx, prompt)
	})
}

// failedResult marks a row failed, mirroring the error into both content
// cells so the spreadsheet shows what went wrong inline.
func failedResult(err error) model.RowResult {
	zap.L().Error("row failed", zap.Error(err))
	msg := "Error: " + err.Error()
	return model.RowResult{
		LinkedInRequest: msg,
		ColdEmail:       msg,
		Status:          model.StatusFailed,
	}
}

// stamp is split out so the runner records one consistent timestamp per row.
func stamp(r model.RowResult, at time.Time) model.RowResult {
	r.ProcessedAt = at
	return r
}
