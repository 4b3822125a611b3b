package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/outreach-cli/internal/model"
)

// readLeadsXLSX reads leads from the first sheet of an XLSX workbook.
// The first row is the header.
func readLeadsXLSX(path string) ([]model.LeadRow, []string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "fetcher: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, nil, eris.New("fetcher: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	var header []string
	var rows []model.LeadRow

	for i, row := range sheet.Rows {
		cells := rowToStrings(row)
		if i == 0 {
			header = cells
			continue
		}
		rows = append(rows, rowFromCells(i-1, header, cells))
	}

	if header == nil {
		return nil, nil, eris.New("fetcher: xlsx sheet is empty")
	}

	return rows, header, nil
}

// writeLeadsXLSX writes the output workbook with a single sheet.
func writeLeadsXLSX(path string, header []string, rows []model.LeadRow, results []*model.RowResult) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "fetcher: add sheet")
	}

	headerRow := sheet.AddRow()
	for _, h := range append(append([]string{}, header...), ResultColumns...) {
		headerRow.AddCell().Value = h
	}

	for i, row := range rows {
		var result *model.RowResult
		if i < len(results) {
			result = results[i]
		}
		out := sheet.AddRow()
		for _, cell := range outputCells(header, row, result) {
			out.AddCell().Value = cell
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "fetcher: save xlsx")
	}
	return nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
