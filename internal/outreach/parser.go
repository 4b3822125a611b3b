package outreach

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Parse failure sentinels. They flow into the output cells so a reader can
// see which rows need a manual pass; they never abort the row.
const (
	FailedLinkedIn = "Failed to parse LinkedIn request"
	FailedEmail    = "Failed to parse email"
	FailedJSON     = "Failed to parse JSON response"
)

var (
	linkedinSection = regexp.MustCompile(`(?s)LINKEDIN_REQUEST_START\s*(.*?)\s*LINKEDIN_REQUEST_END`)
	emailSection    = regexp.MustCompile(`(?s)EMAIL_START\s*(.*?)\s*EMAIL_END`)
)

// Parser extracts the LinkedIn request and email from raw generation output.
// Each section degrades independently: a missing marker or JSON field yields
// its sentinel while the other section still parses.
type Parser struct {
	style     Style
	charLimit int
}

// NewParser creates a parser for the given style. charLimit caps the
// LinkedIn request length; values below 4 fall back to 300.
func NewParser(style Style, charLimit int) *Parser {
	if charLimit < 4 {
		charLimit = 300
	}
	return &Parser{style: style, charLimit: charLimit}
}

// Parse returns (linkedinRequest, email). It never returns an error; parse
// failures come back as sentinel strings.
func (p *Parser) Parse(text string) (string, string) {
	if p.style == StyleJSON {
		return p.parseJSON(text)
	}
	return p.parseDelimited(text)
}

func (p *Parser) parseDelimited(text string) (string, string) {
	linkedin := FailedLinkedIn
	if m := linkedinSection.FindStringSubmatch(text); m != nil {
		linkedin = strings.TrimSpace(m[1])
	}

	email := FailedEmail
	if m := emailSection.FindStringSubmatch(text); m != nil {
		email = strings.TrimSpace(m[1])
	}

	return p.truncate(linkedin), email
}

type generatedJSON struct {
	LinkedInRequest string `json:"linkedin_request"`
	EmailSubject    string `json:"email_subject"`
	EmailBody       string `json:"email_body"`
}

func (p *Parser) parseJSON(text string) (string, string) {
	var data generatedJSON
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &data); err != nil {
		zap.L().Warn("outreach: generation output is not valid json", zap.Error(err))
		return FailedJSON, FailedJSON
	}

	linkedin := strings.TrimSpace(data.LinkedInRequest)
	if linkedin == "" {
		linkedin = FailedLinkedIn
	}

	email := data.EmailBody
	if data.EmailSubject != "" {
		email = "Subject: " + data.EmailSubject + "\n\n" + data.EmailBody
	}

	return p.truncate(linkedin), email
}

// truncate enforces the LinkedIn request length cap, keeping charLimit total
// characters with a trailing ellipsis. The limit counts runes, not bytes, so
// multibyte output is never split mid-character.
func (p *Parser) truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= p.charLimit {
		return s
	}
	zap.L().Warn("outreach: linkedin request over limit, truncating",
		zap.Int("length", len(runes)),
		zap.Int("limit", p.charLimit),
	)
	return string(runes[:p.charLimit-3]) + "..."
}

// stripCodeFences unwraps a markdown code fence, preferring a ```json block,
// then any fence, then the raw text.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)

	for _, prefix := range []string{"```json", "```"} {
		if strings.HasPrefix(text, prefix) {
			inner := strings.TrimPrefix(text, prefix)
			if idx := strings.LastIndex(inner, "```"); idx >= 0 {
				return strings.TrimSpace(inner[:idx])
			}
			return strings.TrimSpace(inner)
		}
	}
	return text
}
