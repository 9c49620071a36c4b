package calendar

import (
	"fmt"
	"time"

	"roster/domain/core"
	"roster/domain/schedule"
)

// DayCell is one day square of a month grid
type DayCell struct {
	Date    string                `json:"date"`
	Day     int                   `json:"day"`
	IsToday bool                  `json:"isToday"`
	Events  []schedule.Occurrence `json:"events"`
}

// MonthView is a Sunday-first month grid. LeadingBlanks is the number of
// empty cells before the 1st.
type MonthView struct {
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	Title         string     `json:"title"`
	LeadingBlanks int        `json:"leadingBlanks"`
	Days          []DayCell  `json:"days"`
	EventCount    int        `json:"eventCount"`
}

// BuildMonth lays out one month of the index. Cells and the today marker use
// the same day keys as the index buckets.
func BuildMonth(ix *Index, year int, month time.Month, today core.Day) (*MonthView, error) {
	first, ok := core.NewDay(year, month, 1)
	if !ok {
		return nil, fmt.Errorf("%w: month %04d-%02d", core.ErrInvalidDate, year, int(month))
	}

	n := core.DaysIn(year, month)
	view := &MonthView{
		Year:          year,
		Month:         month,
		Title:         fmt.Sprintf("%s %d", month, year),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]DayCell, 0, n),
	}

	todayKey := today.String()
	for i := 0; i < n; i++ {
		day := first.AddDays(i)
		key := day.String()
		events := ix.OnKey(key)
		view.Days = append(view.Days, DayCell{
			Date:    key,
			Day:     i + 1,
			IsToday: !today.IsZero() && key == todayKey,
			Events:  events,
		})
		view.EventCount += len(events)
	}
	return view, nil
}

// ParseMonth reads a YYYY-MM month key
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month %q", core.ErrInvalidDate, s)
	}
	return t.Year(), t.Month(), nil
}
