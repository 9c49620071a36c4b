package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"roster/domain/core"
)

// MaxRecurringDates caps a single expansion
const MaxRecurringDates = 1000

// ExpandRule lists the canonical days produced by an RRULE such as
// "FREQ=WEEKLY;BYDAY=MO,FR;UNTIL=20250825" starting at start, up to and
// including through. Rules are evaluated on offset-free midnights so no
// day can drift. Expansion stops as soon as the cap is exceeded.
func ExpandRule(rule string, start, through core.Day) ([]string, error) {
	rule = strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")
	if rule == "" {
		return nil, fmt.Errorf("%w: empty recurrence rule", core.ErrInvalidDate)
	}
	if through.Before(start) {
		return nil, fmt.Errorf("%w: range ends before it starts", core.ErrInvalidDate)
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidDate, err)
	}
	r.DTStart(start.In(time.UTC))

	from, to := start.In(time.UTC), through.In(time.UTC)
	next := r.Iterator()
	out := make([]string, 0)
	for {
		t, ok := next()
		if !ok || t.After(to) {
			break
		}
		if t.Before(from) {
			continue
		}
		if len(out) == MaxRecurringDates {
			return nil, fmt.Errorf("%w: rule produces more than %d dates", core.ErrInvalidDate, MaxRecurringDates)
		}
		out = append(out, core.DayOf(t).String())
	}
	return out, nil
}
