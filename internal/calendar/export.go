package calendar

import (
	"encoding/json"
	"io"

	"roster/domain/core"
	"roster/domain/schedule"
)

// ExportFilename names a JSON export taken on day
func ExportFilename(day core.Day) string {
	return "work-schedule-" + day.String() + ".json"
}

// WriteExport writes the record array exactly as stored, indented
func WriteExport(w io.Writer, records []schedule.CustomerRecord) error {
	if records == nil {
		records = []schedule.CustomerRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
