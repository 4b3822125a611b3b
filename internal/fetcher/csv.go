package fetcher

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// readLeadsCSV reads leads from a CSV file. The first record is the header.
func readLeadsCSV(path string) ([]model.LeadRow, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "fetcher: open csv")
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows tolerated

	header, err := r.Read()
	if err != nil {
		return nil, nil, eris.Wrap(err, "fetcher: read csv header")
	}

	var rows []model.LeadRow
	for i := 0; ; i++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "fetcher: read csv record")
		}
		rows = append(rows, rowFromCells(i, header, record))
	}

	return rows, header, nil
}

// writeLeadsCSV writes the output CSV.
func writeLeadsCSV(path string, header []string, rows []model.LeadRow, results []*model.RowResult) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "fetcher: create csv")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(append(append([]string{}, header...), ResultColumns...)); err != nil {
		return eris.Wrap(err, "fetcher: write csv header")
	}

	for i, row := range rows {
		var result *model.RowResult
		if i < len(results) {
			result = results[i]
		}
		if err := w.Write(outputCells(header, row, result)); err != nil {
			return eris.Wrap(err, "fetcher: write csv record")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "fetcher: flush csv")
	}
	return nil
}
