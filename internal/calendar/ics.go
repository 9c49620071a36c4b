package calendar

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"roster/domain/core"
	"roster/domain/schedule"
)

const icsProductID = "-//roster//work schedule//EN"

// BuildICS renders every occurrence as an all-day VEVENT. Event UIDs are
// stable per (customer, date) so calendar clients update instead of
// duplicating on re-import.
func BuildICS(records []schedule.CustomerRecord, stamp time.Time) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, r := range records {
		for _, date := range r.Dates {
			day, err := core.ParseDay(date)
			if err != nil {
				return nil, fmt.Errorf("record %s: %w", r.ID, err)
			}
			start := day.In(time.UTC)

			event := cal.AddEvent(fmt.Sprintf("%s-%s@roster", r.ID, date))
			event.SetDtStampTime(stamp.UTC())
			event.SetAllDayStartAt(start)
			event.SetAllDayEndAt(day.AddDays(1).In(time.UTC))
			event.SetSummary(r.Name)
			if r.Address != "" {
				event.SetLocation(r.Address)
			}
			if desc := describe(r); desc != "" {
				event.SetDescription(desc)
			}
		}
	}
	return cal, nil
}

// WriteICS serializes the calendar for records to w
func WriteICS(w io.Writer, records []schedule.CustomerRecord, stamp time.Time) error {
	cal, err := BuildICS(records, stamp)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, cal.Serialize())
	return err
}

func describe(r schedule.CustomerRecord) string {
	switch {
	case r.Phone != "" && r.Notes != "":
		return r.Phone + "\n" + r.Notes
	case r.Phone != "":
		return r.Phone
	default:
		return r.Notes
	}
}
