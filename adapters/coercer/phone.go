package coercer

import "strings"

// FormatPhone renders a ten-digit number as XXX-XXX-XXXX. Any other digit
// count returns the input unchanged.
func FormatPhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) != 10 {
		return raw
	}
	return d[0:3] + "-" + d[3:6] + "-" + d[6:10]
}
