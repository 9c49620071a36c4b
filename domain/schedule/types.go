package schedule

import (
	"sort"

	"roster/domain/core"
)

// CustomerRecord is one customer and the days work happens for them.
// Dates are canonical YYYY-MM-DD strings, unique and ascending.
type CustomerRecord struct {
	ID      core.ID  `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Phone   string   `json:"phone"`
	Dates   []string `json:"dates"`
	Notes   string   `json:"notes"`
}

// Draft is a parsed spreadsheet row that has not been given an id yet
type Draft struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Phone   string   `json:"phone"`
	Notes   string   `json:"notes"`
	Dates   []string `json:"dates"`
}

// CustomerInput is the manual add/edit payload
type CustomerInput struct {
	Name    string   `json:"name" validate:"required,max=200"`
	Address string   `json:"address" validate:"required,max=500"`
	Phone   string   `json:"phone" validate:"max=50"`
	Dates   []string `json:"dates" validate:"dive,datetime=2006-01-02"`
	Notes   string   `json:"notes" validate:"max=2000"`
}

// Occurrence is one (record, date) pairing in the event index
type Occurrence struct {
	CustomerID core.ID `json:"customerId"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Phone      string  `json:"phone"`
	Notes      string  `json:"notes"`
	Date       string  `json:"date"`
}

// WithID turns a draft into a record
func (d Draft) WithID(id core.ID) CustomerRecord {
	return CustomerRecord{
		ID:      id,
		Name:    d.Name,
		Address: d.Address,
		Phone:   d.Phone,
		Dates:   NormalizeDates(d.Dates),
		Notes:   d.Notes,
	}
}

// Clone returns a deep copy of the record
func (r CustomerRecord) Clone() CustomerRecord {
	out := r
	out.Dates = append([]string(nil), r.Dates...)
	return out
}

// HasDate reports whether the record is scheduled on date
func (r CustomerRecord) HasDate(date string) bool {
	i := sort.SearchStrings(r.Dates, date)
	return i < len(r.Dates) && r.Dates[i] == date
}

// NormalizeDates returns the canonical dates de-duplicated and in ascending
// order. Canonical strings sort lexically in calendar order.
func NormalizeDates(dates []string) []string {
	out := make([]string, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// CloneAll deep-copies a record slice
func CloneAll(records []CustomerRecord) []CustomerRecord {
	out := make([]CustomerRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
