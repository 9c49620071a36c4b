package excel

import (
	"fmt"

	"roster/domain/core"
	"roster/domain/ingestion"
)

// Workbook is a fully decoded spreadsheet. It implements ports.Workbook and
// holds no open file handles, so it can wait for a sheet choice.
type Workbook struct {
	Filename string
	FileType string // "xlsx" or "csv"
	sheets   []string
	rows     map[string][]ingestion.RawRow
}

// NewWorkbook builds a workbook from already typed rows. Sheet order
// follows names.
func NewWorkbook(filename string, names []string, rows map[string][]ingestion.RawRow) *Workbook {
	if rows == nil {
		rows = make(map[string][]ingestion.RawRow)
	}
	return &Workbook{Filename: filename, FileType: "memory", sheets: names, rows: rows}
}

// SheetNames lists sheets in workbook order
func (w *Workbook) SheetNames() []string {
	out := make([]string, len(w.sheets))
	copy(out, w.sheets)
	return out
}

// Rows returns the typed rows of one sheet
func (w *Workbook) Rows(sheet string) ([]ingestion.RawRow, error) {
	rows, ok := w.rows[sheet]
	if !ok {
		return nil, fmt.Errorf("read sheet: %w", core.NewSheetNotFoundError(sheet))
	}
	return rows, nil
}

// RowCount returns the number of rows in a sheet, header included
func (w *Workbook) RowCount(sheet string) int {
	return len(w.rows[sheet])
}
