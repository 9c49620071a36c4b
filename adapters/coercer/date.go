package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"roster/domain/core"
	"roster/domain/ingestion"
)

const (
	// SerialUnixEpoch is the spreadsheet serial of 1970-01-01. The same fixed
	// offset is used for every serial, including those before 1900-03-01
	// where spreadsheets count a non-existent 1900-02-29.
	SerialUnixEpoch = 25569

	// maxSerial is 9999-12-31
	maxSerial = 2958465

	// Two-digit years below the pivot belong to the 2000s, the rest to the 1900s
	twoDigitYearPivot = 50
)

// absoluteLayouts are tried before the month/day/year fallback. None of them
// depend on locale order.
var absoluteLayouts = []string{
	core.DayLayout,
	"2006/01/02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, Jan 2, 2006",
	"2-Jan-2006",
}

// shortYearLayout has a two-digit year, expanded with twoDigitYearPivot
// instead of the time package's own pivot.
const shortYearLayout = "2-Jan-06"

// NormalizeDate turns one cell into a calendar day. The bool is false for
// blank, zero, negative or unparseable input.
func NormalizeDate(v ingestion.Value) (core.Day, bool) {
	switch v.Type {
	case ingestion.ValueTypeNumeric:
		return dayFromSerial(v.Numeric)
	case ingestion.ValueTypeDate:
		if v.Date.IsZero() {
			return core.Day{}, false
		}
		return core.DayOf(v.Date), true
	case ingestion.ValueTypeText:
		return dayFromText(v.Text)
	}
	return core.Day{}, false
}

// NormalizeDateString is NormalizeDate returning the canonical key, or "".
func NormalizeDateString(v ingestion.Value) string {
	d, ok := NormalizeDate(v)
	if !ok {
		return ""
	}
	return d.String()
}

func dayFromSerial(serial float64) (core.Day, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return core.Day{}, false
	}
	// Fraction is time-of-day
	whole := math.Floor(serial)
	if whole < 1 || whole > maxSerial {
		return core.Day{}, false
	}
	return core.UnixDay(int(whole) - SerialUnixEpoch), true
}

func dayFromText(raw string) (core.Day, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return core.Day{}, false
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// The parsed fields are read back as written; no zone conversion.
			return core.DayOf(t), true
		}
	}

	if t, err := time.Parse(shortYearLayout, s); err == nil {
		return core.NewDay(expandYear(t.Year()%100), t.Month(), t.Day())
	}

	// Serials that arrived as text
	if isPlainNumber(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return dayFromSerial(f)
		}
	}

	return dayFromParts(s)
}

// dayFromParts handles MM/DD/YYYY, MM-DD-YY and, when the first part has
// four digits, YYYY-M-D.
func dayFromParts(s string) (core.Day, bool) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) != 3 {
		return core.Day{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || !isPlainNumber(p) || strings.Contains(p, ".") {
			return core.Day{}, false
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return core.Day{}, false
		}
		nums[i] = n
	}

	if len(strings.TrimSpace(parts[0])) == 4 {
		return core.NewDay(nums[0], time.Month(nums[1]), nums[2])
	}

	year := nums[2]
	switch len(strings.TrimSpace(parts[2])) {
	case 1, 2:
		year = expandYear(year)
	case 4:
	default:
		return core.Day{}, false
	}
	return core.NewDay(year, time.Month(nums[0]), nums[1])
}

func expandYear(yy int) int {
	if yy < twoDigitYearPivot {
		return 2000 + yy
	}
	return 1900 + yy
}
