package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"roster/domain/ingestion"
)

// CoerceValue converts an untyped value from a decoding library into a
// tagged cell. This is the only place that probes runtime types; everything
// downstream switches on ingestion.ValueType.
func CoerceValue(raw interface{}) ingestion.Value {
	switch v := raw.(type) {
	case nil:
		return ingestion.NewMissingValue()
	case ingestion.Value:
		return v
	case time.Time:
		return ingestion.NewDateValue(v)
	case *time.Time:
		if v == nil {
			return ingestion.NewMissingValue()
		}
		return ingestion.NewDateValue(*v)
	case float64:
		return numeric(v)
	case float32:
		return numeric(float64(v))
	case int:
		return ingestion.NewNumericValue(float64(v))
	case int64:
		return ingestion.NewNumericValue(float64(v))
	case int32:
		return ingestion.NewNumericValue(float64(v))
	case uint:
		return ingestion.NewNumericValue(float64(v))
	case uint64:
		return ingestion.NewNumericValue(float64(v))
	case bool:
		return ingestion.NewTextValue(strconv.FormatBool(v))
	case string:
		return ingestion.NewTextValue(v)
	case []byte:
		return ingestion.NewTextValue(string(v))
	}
	return ingestion.NewMissingValue()
}

// CoerceText tags a string read from a source that has no cell types (CSV).
// Digits stay text so leading zeros survive; the date normalizer reads
// digit-only text as a serial.
func CoerceText(s string) ingestion.Value {
	if strings.TrimSpace(s) == "" {
		return ingestion.NewMissingValue()
	}
	return ingestion.NewTextValue(s)
}

func numeric(f float64) ingestion.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ingestion.NewMissingValue()
	}
	return ingestion.NewNumericValue(f)
}

// isPlainNumber accepts digits with at most one decimal point. Signs,
// exponents and separators are left as text.
func isPlainNumber(s string) bool {
	dot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot && i > 0:
			dot = true
		default:
			return false
		}
	}
	return true
}
