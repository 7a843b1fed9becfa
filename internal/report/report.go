package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hyperifyio/pagepeek/internal/extract"
)

// Markdown renders a record as a field-by-field Markdown report.
func Markdown(rec *extract.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", rec.Title)
	fmt.Fprintf(&b, "- Source: %s\n", rec.SourceURL)
	fmt.Fprintf(&b, "- Domain: %s\n", rec.Domain)
	fmt.Fprintf(&b, "- Fetched: %s\n", rec.FetchedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Status: %d\n", rec.HTTPStatus)
	fmt.Fprintf(&b, "- Content-Type: %s\n\n", rec.ContentType)

	fmt.Fprintf(&b, "%s\n", rec.Description)

	if len(rec.Headings) > 0 {
		b.WriteString("\n## Headings\n\n")
		for _, h := range rec.Headings {
			fmt.Fprintf(&b, "- %s: %s\n", h.Level, h.Text)
		}
	}

	if len(rec.Paragraphs) > 0 {
		b.WriteString("\n## Paragraphs\n")
		for _, p := range rec.Paragraphs {
			fmt.Fprintf(&b, "\n%s\n", p)
		}
	}

	if len(rec.Links) > 0 {
		b.WriteString("\n## Links\n\n")
		for i, l := range rec.Links {
			fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, l.Text, l.Href)
		}
	}

	if len(rec.Images) > 0 {
		b.WriteString("\n## Images\n\n")
		for _, img := range rec.Images {
			fmt.Fprintf(&b, "- ![%s](%s)\n", img.Alt, img.Src)
		}
	}

	if len(rec.MetaTags) > 0 {
		b.WriteString("\n## Meta tags\n\n")
		// Map order is unspecified; sort keys for a stable document.
		keys := make([]string, 0, len(rec.MetaTags))
		for k := range rec.MetaTags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, rec.MetaTags[k])
		}
	}

	if rec.BodyTextPreview != "" {
		b.WriteString("\n## Preview\n\n")
		b.WriteString(rec.BodyTextPreview)
		b.WriteString("\n")
	}

	return b.String()
}
