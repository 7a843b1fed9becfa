package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/pagepeek/internal/extract"
)

// WritePDF renders a minimal PDF from a record, preserving section structure
// and turning extracted links into clickable PDF links. This is intentionally
// simple and does not attempt full page layout.
func WritePDF(rec *extract.Record, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, rec.Title, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	meta := []string{
		fmt.Sprintf("Source: %s", rec.SourceURL),
		fmt.Sprintf("Domain: %s", rec.Domain),
		fmt.Sprintf("Fetched: %s", rec.FetchedAt.Format(time.RFC3339)),
		fmt.Sprintf("Status: %d", rec.HTTPStatus),
		fmt.Sprintf("Content-Type: %s", rec.ContentType),
	}
	for _, line := range meta {
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5, rec.Description, "", "L", false)

	if len(rec.Headings) > 0 {
		sectionHeader(pdf, "Headings")
		for _, h := range rec.Headings {
			pdf.MultiCell(0, 5, fmt.Sprintf("%s  %s", h.Level, h.Text), "", "L", false)
		}
	}

	if len(rec.Paragraphs) > 0 {
		sectionHeader(pdf, "Paragraphs")
		for _, p := range rec.Paragraphs {
			pdf.MultiCell(0, 5, p, "", "L", false)
			pdf.Ln(2)
		}
	}

	if len(rec.Links) > 0 {
		sectionHeader(pdf, "Links")
		for _, l := range rec.Links {
			pdf.WriteLinkString(5, l.Text, l.Href)
			pdf.Ln(6)
		}
	}

	if len(rec.Images) > 0 {
		sectionHeader(pdf, "Images")
		for _, img := range rec.Images {
			label := img.Src
			if img.Alt != "" {
				label = fmt.Sprintf("%s (%s)", img.Alt, img.Src)
			}
			pdf.MultiCell(0, 5, label, "", "L", false)
		}
	}

	if len(rec.MetaTags) > 0 {
		sectionHeader(pdf, "Meta tags")
		keys := make([]string, 0, len(rec.MetaTags))
		for k := range rec.MetaTags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			pdf.MultiCell(0, 5, fmt.Sprintf("%s: %s", k, rec.MetaTags[k]), "", "L", false)
		}
	}

	if rec.BodyTextPreview != "" {
		sectionHeader(pdf, "Preview")
		pdf.MultiCell(0, 5, rec.BodyTextPreview, "", "L", false)
	}

	return pdf.OutputFileAndClose(outPath)
}

func sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}
