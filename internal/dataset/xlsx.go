package dataset

import (
	"github.com/xuri/excelize/v2"

	apperrors "cvepi/internal/errors"
)

// readWorkbookRecords reads the first sheet of an .xlsx source into the
// same row shape the CSV reader produces. Some upstream portals only
// publish workbooks, so any source may arrive in this form.
func readWorkbookRecords(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewSchemaViolationError("workbook has no sheets", nil).
			WithContext("path", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewSchemaViolationError("failed to read workbook rows", err).
			WithContext("path", path).
			WithContext("sheet", sheets[0])
	}

	// Trailing empty rows are common in hand-exported workbooks.
	trimmed := rows[:0]
	for _, row := range rows {
		empty := true
		for _, cell := range row {
			if cell != "" {
				empty = false
				break
			}
		}
		if !empty {
			trimmed = append(trimmed, row)
		}
	}

	return trimmed, nil
}
