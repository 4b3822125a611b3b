// Package fetcher reads and writes the lead spreadsheets and the resume
// text that feed the pipeline.
package fetcher

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Result column headers appended to the output spreadsheet.
var ResultColumns = []string{"LinkedIn Request", "Cold Email", "Processing Status", "Processed At"}

// Input column names recognized (case-insensitively) when mapping the
// header row onto LeadRow fields.
const (
	colFirstName = "first name"
	colLastName  = "last name"
	colLeadTitle = "lead title"
	colCompany   = "company name"
	colWebsite   = "website"
	colLinkedIn  = "lead linkedin"
	colJobTitle  = "job title"
)

// ReadLeads reads a leads file (.xlsx or .csv by extension) and returns the
// rows plus the original header, which WriteLeads needs to reproduce the
// input columns untouched.
func ReadLeads(path string) ([]model.LeadRow, []string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readLeadsXLSX(path)
	case ".csv":
		return readLeadsCSV(path)
	default:
		return nil, nil, eris.Errorf("fetcher: unsupported leads format %q (want .xlsx or .csv)", filepath.Ext(path))
	}
}

// WriteLeads writes the output spreadsheet: every original column in input
// order followed by the four result columns. results is positional; a nil
// entry leaves the result cells empty (row not processed yet).
func WriteLeads(path string, header []string, rows []model.LeadRow, results []*model.RowResult) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return writeLeadsXLSX(path, header, rows, results)
	case ".csv":
		return writeLeadsCSV(path, header, rows, results)
	default:
		return eris.Errorf("fetcher: unsupported output format %q (want .xlsx or .csv)", filepath.Ext(path))
	}
}

// rowFromCells maps one spreadsheet row onto a LeadRow using the header.
func rowFromCells(index int, header, cells []string) model.LeadRow {
	row := model.LeadRow{Index: index, Raw: cells}
	for i, name := range header {
		if i >= len(cells) {
			break
		}
		val := strings.TrimSpace(cells[i])
		switch strings.ToLower(strings.TrimSpace(name)) {
		case colFirstName:
			row.FirstName = val
		case colLastName:
			row.LastName = val
		case colLeadTitle:
			row.LeadTitle = val
		case colCompany:
			row.CompanyName = val
		case colWebsite:
			row.Website = val
		case colLinkedIn:
			row.LinkedInURL = val
		case colJobTitle:
			row.JobTitle = val
		}
	}
	return row
}

// outputCells renders one output row: original cells padded to the header
// width, then the four result cells.
func outputCells(header []string, row model.LeadRow, result *model.RowResult) []string {
	cells := make([]string, len(header), len(header)+len(ResultColumns))
	copy(cells, row.Raw)

	if result == nil {
		return append(cells, "", "", "", "")
	}
	return append(cells,
		result.LinkedInRequest,
		result.ColdEmail,
		result.StatusCell(),
		result.ProcessedAtCell(),
	)
}
