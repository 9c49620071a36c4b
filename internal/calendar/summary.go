package calendar

import (
	"github.com/montanaflynn/stats"

	"roster/domain/schedule"
)

// Summary is the dashboard header block
type Summary struct {
	TotalCustomers int     `json:"totalCustomers"`
	TotalWorkDays  int     `json:"totalWorkDays"`
	UniqueDates    int     `json:"uniqueDates"`
	MeanDates      float64 `json:"meanDatesPerCustomer"`
	MedianDates    float64 `json:"medianDatesPerCustomer"`
	FirstDate      string  `json:"firstDate,omitempty"`
	LastDate       string  `json:"lastDate,omitempty"`
	BusiestDate    string  `json:"busiestDate,omitempty"`
	BusiestCount   int     `json:"busiestCount"`
}

// Summarize computes counts over the record set and its index
func Summarize(records []schedule.CustomerRecord, ix *Index) Summary {
	s := Summary{
		TotalCustomers: len(records),
		TotalWorkDays:  ix.Len(),
		UniqueDates:    len(ix.days),
	}

	if len(ix.days) > 0 {
		s.FirstDate = ix.days[0]
		s.LastDate = ix.days[len(ix.days)-1]
	}
	for _, day := range ix.days {
		if n := len(ix.buckets[day]); n > s.BusiestCount {
			s.BusiestCount = n
			s.BusiestDate = day
		}
	}

	if len(records) == 0 {
		return s
	}
	perCustomer := make(stats.Float64Data, len(records))
	for i, r := range records {
		perCustomer[i] = float64(len(r.Dates))
	}
	if mean, err := stats.Mean(perCustomer); err == nil {
		s.MeanDates, _ = stats.Round(mean, 2)
	}
	if median, err := stats.Median(perCustomer); err == nil {
		s.MedianDates = median
	}
	return s
}
