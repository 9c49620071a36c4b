package coercer

import (
	"fmt"
	"math"
	"testing"
	"time"

	"roster/domain/core"
	"roster/domain/ingestion"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate_Serials(t *testing.T) {
	tests := []struct {
		serial   float64
		expected string
	}{
		{25569, "1970-01-01"},
		{45838, "2025-07-01"},
		{45842, "2025-07-05"},
		{45838.75, "2025-07-01"},
		{1, "1899-12-31"},
		{0, ""},
		{-3, ""},
		{0.5, ""},
		{math.NaN(), ""},
		{3e9, ""},
	}

	for _, test := range tests {
		got := NormalizeDateString(ingestion.NewNumericValue(test.serial))
		assert.Equal(t, test.expected, got, "serial %v", test.serial)
	}
}

func TestNormalizeDate_Text(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"07/04/2025", "2025-07-04"},
		{"07/04/25", "2025-07-04"},
		{"7/4/25", "2025-07-04"},
		{"12/31/49", "2049-12-31"},
		{"01/01/50", "1950-01-01"},
		{"07-11-2025", "2025-07-11"},
		{"2025-07-04", "2025-07-04"},
		{"2025/07/04", "2025-07-04"},
		{"2025-7-4", "2025-07-04"},
		{"2025-07-04T00:00:00Z", "2025-07-04"},
		{"2025-07-04T23:30:00-10:00", "2025-07-04"},
		{"2025-07-04 08:15:00", "2025-07-04"},
		{"Jul 4, 2025", "2025-07-04"},
		{"4-Jul-2025", "2025-07-04"},
		{"15-Mar-60", "1960-03-15"},
		{"04-Jul-25", "2025-07-04"},
		{"31-Dec-49", "2049-12-31"},
		{"03/15/60", "1960-03-15"},
		{"45838", "2025-07-01"},
		{"  07/04/2025  ", "2025-07-04"},
		{"", ""},
		{"   ", ""},
		{"0", ""},
		{"-5", ""},
		{"tbd", ""},
		{"13/01/2025", ""},
		{"02/30/2025", ""},
		{"07/04", ""},
		{"07/04/2025/1", ""},
		{"07/04/025", ""},
		{"aa/bb/cccc", ""},
	}

	for _, test := range tests {
		got := NormalizeDateString(ingestion.NewTextValue(test.input))
		assert.Equal(t, test.expected, got, "input %q", test.input)
	}
}

func TestNormalizeDate_CanonicalIdentity(t *testing.T) {
	d, _ := core.NewDay(1999, time.January, 1)
	for i := 0; i < 12000; i += 7 {
		s := d.AddDays(i).String()
		assert.Equal(t, s, NormalizeDateString(ingestion.NewTextValue(s)))
	}
}

func TestNormalizeDate_DateLikeIgnoresZone(t *testing.T) {
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("UTC-11", -11*3600),
		time.FixedZone("UTC+13", 13*3600),
	}
	for _, loc := range zones {
		v := ingestion.NewDateValue(time.Date(2025, time.July, 4, 0, 0, 0, 0, loc))
		assert.Equal(t, "2025-07-04", NormalizeDateString(v), loc.String())

		v = ingestion.NewDateValue(time.Date(2025, time.July, 4, 23, 59, 0, 0, loc))
		assert.Equal(t, "2025-07-04", NormalizeDateString(v), loc.String())
	}
}

func TestNormalizeDate_Missing(t *testing.T) {
	_, ok := NormalizeDate(ingestion.NewMissingValue())
	assert.False(t, ok)
	_, ok = NormalizeDate(ingestion.Value{})
	assert.False(t, ok)
	_, ok = NormalizeDate(ingestion.NewDateValue(time.Time{}))
	assert.False(t, ok)
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5551234567", "555-123-4567"},
		{"(555) 123-4567", "555-123-4567"},
		{"555.123.4567", "555-123-4567"},
		{"555-123-4567", "555-123-4567"},
		{"1-555-123-4567", "1-555-123-4567"},
		{"123-4567", "123-4567"},
		{"", ""},
		{"call office", "call office"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, FormatPhone(test.input), "input %q", test.input)
	}
}

func TestFormatPhone_Idempotent(t *testing.T) {
	for i := 0; i < 500; i++ {
		x := fmt.Sprintf("%010d", i*19997)
		once := FormatPhone(x)
		assert.Equal(t, once, FormatPhone(once))
	}
}

func TestFormatPhone_OtherLengthsUnchanged(t *testing.T) {
	for n := 0; n < 16; n++ {
		if n == 10 {
			continue
		}
		x := ""
		for i := 0; i < n; i++ {
			x += fmt.Sprint(i % 10)
		}
		assert.Equal(t, x, FormatPhone(x))
	}
}

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, ingestion.ValueTypeMissing, CoerceValue(nil).Type)
	assert.Equal(t, ingestion.ValueTypeNumeric, CoerceValue(45838).Type)
	assert.Equal(t, ingestion.ValueTypeNumeric, CoerceValue(45838.0).Type)
	assert.Equal(t, ingestion.ValueTypeText, CoerceValue("Acme").Type)
	assert.Equal(t, ingestion.ValueTypeMissing, CoerceValue("  ").Type)
	assert.Equal(t, ingestion.ValueTypeDate, CoerceValue(time.Now()).Type)
	assert.Equal(t, ingestion.ValueTypeMissing, CoerceValue(math.Inf(1)).Type)
}

func TestCoerceText(t *testing.T) {
	assert.Equal(t, ingestion.ValueTypeText, CoerceText("45838").Type)
	assert.Equal(t, "0123456789", CoerceText("0123456789").String())
	assert.Equal(t, "0042", CoerceText("0042").String())
	assert.Equal(t, ingestion.ValueTypeText, CoerceText("07/04/2025").Type)
	assert.Equal(t, ingestion.ValueTypeMissing, CoerceText("").Type)
	assert.Equal(t, ingestion.ValueTypeMissing, CoerceText("   ").Type)

	assert.Equal(t, "2025-07-01", NormalizeDateString(CoerceText("45838")))
	assert.Equal(t, "012-345-6789", FormatPhone(CoerceText("0123456789").String()))
}
