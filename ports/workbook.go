package ports

import "roster/domain/ingestion"

// Workbook is the decoded form of an uploaded spreadsheet
type Workbook interface {
	// SheetNames lists sheets in workbook order
	SheetNames() []string
	// Rows returns every row of a sheet, header included. Blank cells are
	// missing values; short rows are not padded.
	Rows(sheet string) ([]ingestion.RawRow, error)
}
