// Package outreach generates personalized LinkedIn requests and cold emails
// for lead rows and drives the batch run that processes a whole spreadsheet.
package outreach

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Style selects the prompt and response format used for generation.
type Style string

const (
	// StyleDelimiter asks for marker-delimited sections and researches the
	// person as well as the company.
	StyleDelimiter Style = "delimiter"
	// StyleJSON asks for a compact JSON object and skips person research.
	StyleJSON Style = "json"
)

// ParseStyle validates a style string from config or flags.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleDelimiter, StyleJSON:
		return Style(s), nil
	default:
		return "", eris.Errorf("outreach: unknown style %q (want delimiter or json)", s)
	}
}

// PromptInput carries everything a prompt can reference.
type PromptInput struct {
	Resume      string
	LeadTitle   string
	CompanyName string
	JobTitle    string
	PersonInfo  string
	CompanyInfo string
}

// jsonPromptResumeLimit bounds the resume text in the compact JSON prompt.
const jsonPromptResumeLimit = 500

const delimiterPrompt = `You are an expert at writing personalized, professional outreach messages.

MY BACKGROUND:
%s

TARGET OPPORTUNITY:
- Position: %s
- Company: %s
- Contact: %s

ABOUT THE RECIPIENT:
%s

ABOUT THE COMPANY:
%s

TASK: Create two pieces of outreach content that reference what the recipient is currently doing based on the research above:

1. A LinkedIn connection request that:
   - Is under 300 characters
   - References something specific from their profile/company
   - Mentions the role naturally
   - Sounds genuinely interested, not salesy

2. A cold email that:
   - Has a compelling, specific subject line
   - Opens with a genuine connection/reference
   - Briefly highlights 1-2 relevant qualifications
   - Shows knowledge of their company/role
   - Ends with a soft, specific call-to-action
   - Is 150-250 words total

FORMAT YOUR RESPONSE EXACTLY AS FOLLOWS:
LINKEDIN_REQUEST_START
[Your LinkedIn connection request here - max 300 chars]
LINKEDIN_REQUEST_END

EMAIL_START
Subject: [Compelling subject line]

[Email body - keep it concise and personalized]
EMAIL_END
`

const jsonPrompt = `Create outreach asking about open opportunities at %s.

MY SKILLS: %s
CONTACT: %s
COMPANY: %s

Create:
1. LinkedIn request (<300 chars, ask about openings, reference company)
2. Cold email with this exact structure:
   - 2-3 lines of pleasantries and introduction
   - 3 achievements from my resume that match the company's business
   - Close by asking for a short 15 minute call and mention the attached resume

Return ONLY valid JSON:
{
    "linkedin_request": "your linkedin message here",
    "email_subject": "your email subject here",
    "email_body": "your email body here"
}`

// BuildPrompt renders the generation prompt for the given style.
func BuildPrompt(style Style, in PromptInput) string {
	if style == StyleJSON {
		resume := in.Resume
		if runes := []rune(resume); len(runes) > jsonPromptResumeLimit {
			resume = string(runes[:jsonPromptResumeLimit]) + "..."
		}
		return fmt.Sprintf(jsonPrompt, in.CompanyName, resume, in.LeadTitle, in.CompanyInfo)
	}
	return fmt.Sprintf(delimiterPrompt,
		in.Resume, in.JobTitle, in.CompanyName, in.LeadTitle, in.PersonInfo, in.CompanyInfo)
}
