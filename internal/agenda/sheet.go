package agenda

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"roster/domain/core"
	"roster/domain/schedule"
)

// Markdown renders one day's occurrences as a printable work sheet
func Markdown(day core.Day, occurrences []schedule.Occurrence) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Work schedule: %s, %s %d, %d\n\n", day.Weekday(), day.Month(), day.DayOfMonth(), day.Year())

	if len(occurrences) == 0 {
		b.WriteString("_Nothing scheduled._\n")
		return b.String()
	}

	noun := "customers"
	if len(occurrences) == 1 {
		noun = "customer"
	}
	fmt.Fprintf(&b, "%d %s scheduled.\n", len(occurrences), noun)

	for _, o := range occurrences {
		fmt.Fprintf(&b, "\n## %s\n\n", o.Name)
		if o.Address != "" {
			fmt.Fprintf(&b, "- **Address:** %s\n", o.Address)
		}
		if o.Phone != "" {
			fmt.Fprintf(&b, "- **Phone:** %s\n", o.Phone)
		}
		if o.Notes != "" {
			fmt.Fprintf(&b, "- **Notes:** %s\n", o.Notes)
		}
	}
	return b.String()
}

// HTML renders the work sheet as a standalone page. Raw HTML in record
// fields is dropped.
func HTML(day core.Day, occurrences []schedule.Occurrence) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Work schedule " + day.String(),
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML,
	})
	return markdown.ToHTML([]byte(Markdown(day, occurrences)), p, renderer)
}
