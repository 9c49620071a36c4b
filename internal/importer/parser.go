package importer

import (
	"fmt"
	"strings"

	"roster/adapters/coercer"
	"roster/domain/ingestion"
	"roster/domain/schedule"
)

// Fixed positional layout of a roster sheet. Column 0 is a row number and
// column 4 is a free-form tag; neither is imported.
const (
	colName      = 1
	colAddress   = 2
	colPhone     = 3
	colTag       = 4
	colNoteFirst = 5
	colNoteLast  = 8
	colDateFirst = 9
)

// notesDelimiter joins the non-empty note fragments
const notesDelimiter = " | "

// normalizeDate is swapped in tests to drive the row-boundary recovery
var normalizeDate = coercer.NormalizeDateString

// SkipReason explains why a row produced no draft
type SkipReason string

const (
	SkipNone      SkipReason = ""
	SkipBlankName SkipReason = "blank name"
	SkipNoDates   SkipReason = "no parseable dates"
	SkipPanicked  SkipReason = "row could not be read"
)

// ParseRow turns one data row into a draft. When ok is false the reason says
// why the row was skipped. A panic inside extraction is recovered and
// reported as SkipPanicked so the caller can carry on with the next row.
func ParseRow(row ingestion.RawRow) (draft schedule.Draft, reason SkipReason, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			draft = schedule.Draft{}
			reason = SkipReason(fmt.Sprintf("%s: %v", SkipPanicked, r))
			ok = false
		}
	}()

	name := row.Text(colName)
	if name == "" {
		return schedule.Draft{}, SkipBlankName, false
	}

	dates := parseDates(row)
	if len(dates) == 0 {
		return schedule.Draft{}, SkipNoDates, false
	}

	return schedule.Draft{
		Name:    name,
		Address: row.Text(colAddress),
		Phone:   coercer.FormatPhone(row.Text(colPhone)),
		Notes:   joinNotes(row),
		Dates:   dates,
	}, SkipNone, true
}

func joinNotes(row ingestion.RawRow) string {
	parts := make([]string, 0, colNoteLast-colNoteFirst+1)
	for col := colNoteFirst; col <= colNoteLast; col++ {
		if s := row.Text(col); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, notesDelimiter)
}

// parseDates keeps row order and duplicates; uniqueness is applied when the
// draft becomes a record.
func parseDates(row ingestion.RawRow) []string {
	var dates []string
	for col := colDateFirst; col < len(row); col++ {
		if d := normalizeDate(row[col]); d != "" {
			dates = append(dates, d)
		}
	}
	return dates
}
