package calendar

import (
	"encoding/json"
	"sort"
	"time"

	"roster/domain/core"
	"roster/domain/schedule"
)

// Index groups occurrences by canonical day. It is immutable once built;
// any change to the record set means building a new one.
type Index struct {
	buckets map[string][]schedule.Occurrence
	days    []string
	total   int
}

// BuildIndex creates one occurrence per (record, date). Buckets keep record
// order, and each record contributes its dates in its own order.
func BuildIndex(records []schedule.CustomerRecord) *Index {
	ix := &Index{buckets: make(map[string][]schedule.Occurrence)}
	for _, r := range records {
		for _, date := range r.Dates {
			ix.buckets[date] = append(ix.buckets[date], schedule.Occurrence{
				CustomerID: r.ID,
				Name:       r.Name,
				Address:    r.Address,
				Phone:      r.Phone,
				Notes:      r.Notes,
				Date:       date,
			})
			ix.total++
		}
	}

	ix.days = make([]string, 0, len(ix.buckets))
	for day := range ix.buckets {
		ix.days = append(ix.days, day)
	}
	sort.Strings(ix.days)
	return ix
}

// On returns the occurrences for a day
func (ix *Index) On(day core.Day) []schedule.Occurrence {
	return ix.OnKey(day.String())
}

// OnKey returns the occurrences for a canonical day key
func (ix *Index) OnKey(key string) []schedule.Occurrence {
	bucket := ix.buckets[key]
	out := make([]schedule.Occurrence, len(bucket))
	copy(out, bucket)
	return out
}

// Today returns the occurrences for the calendar day of now in loc
func (ix *Index) Today(now time.Time, loc *time.Location) []schedule.Occurrence {
	if loc != nil {
		now = now.In(loc)
	}
	return ix.On(core.DayOf(now))
}

// Between returns the buckets for days in [from, to], both inclusive
func (ix *Index) Between(from, to core.Day) map[string][]schedule.Occurrence {
	lo, hi := from.String(), to.String()
	out := make(map[string][]schedule.Occurrence)
	start := sort.SearchStrings(ix.days, lo)
	for _, day := range ix.days[start:] {
		if day > hi {
			break
		}
		out[day] = ix.OnKey(day)
	}
	return out
}

// Days lists the days that have at least one occurrence, ascending
func (ix *Index) Days() []string {
	out := make([]string, len(ix.days))
	copy(out, ix.days)
	return out
}

// Len returns the total number of occurrences
func (ix *Index) Len() int {
	return ix.total
}

// MarshalJSON renders the index as a day -> occurrences object
func (ix *Index) MarshalJSON() ([]byte, error) {
	return json.Marshal(ix.buckets)
}
