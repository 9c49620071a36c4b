package importer

import (
	"fmt"

	"roster/domain/core"
	"roster/domain/ingestion"
	"roster/domain/schedule"
	"roster/internal"
	"roster/ports"
)

// Result is the outcome of a successful aggregation
type Result struct {
	Sheet    string                    `json:"sheet"`
	Records  []schedule.CustomerRecord `json:"records"`
	Accepted int                       `json:"accepted"`
	Skipped  int                       `json:"skipped"`
	Warnings []ingestion.RowWarning    `json:"warnings,omitempty"`
}

// Aggregator turns the rows of one sheet into a complete replacement record set
type Aggregator struct {
	newID  func() core.ID
	logger *internal.Logger
}

// NewAggregator creates an aggregator that mints ids with core.NewID
func NewAggregator(logger *internal.Logger) *Aggregator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Aggregator{newID: core.NewID, logger: logger.WithComponent("Importer")}
}

// WithIDFunc overrides id generation, mainly for deterministic tests
func (a *Aggregator) WithIDFunc(fn func() core.ID) *Aggregator {
	a.newID = fn
	return a
}

// Aggregate parses every data row of sheet. Row 0 is the header and is never
// parsed. It fails with core.ErrEmptyWorkbook, core.ErrSheetNotFound or
// core.ErrEmptyImportResult; it never mutates anything.
func (a *Aggregator) Aggregate(wb ports.Workbook, sheet string) (*Result, error) {
	names := wb.SheetNames()
	if len(names) == 0 {
		return nil, core.ErrEmptyWorkbook
	}
	if !contains(names, sheet) {
		return nil, core.NewSheetNotFoundError(sheet)
	}

	rows, err := wb.Rows(sheet)
	if err != nil {
		return nil, err
	}

	result := &Result{Sheet: sheet}
	for i := 1; i < len(rows); i++ {
		draft, reason, ok := ParseRow(rows[i])
		if !ok {
			result.Skipped++
			// Blank-name rows are usually spacer rows; only log the rest.
			if reason != SkipBlankName {
				result.Warnings = append(result.Warnings, ingestion.RowWarning{RowIndex: i, Reason: string(reason)})
				a.logger.Warn("Skipping row %d of %q: %s", i, sheet, reason)
			}
			continue
		}
		result.Records = append(result.Records, draft.WithID(a.newID()))
	}
	result.Accepted = len(result.Records)

	if result.Accepted == 0 {
		return nil, fmt.Errorf("%w: sheet %q (%d rows skipped)", core.ErrEmptyImportResult, sheet, result.Skipped)
	}

	a.logger.Info("Parsed sheet %q: %d accepted, %d skipped, %d warnings", sheet, result.Accepted, result.Skipped, len(result.Warnings))
	return result, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
