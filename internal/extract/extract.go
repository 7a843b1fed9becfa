package extract

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// cleanText trims the value and collapses any run of whitespace to a single
// space. An empty result means the value is treated as absent.
func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// imageSrcAttrs lists source attributes in fallback order; lazy-loading
// markup often carries the real URL in a data attribute.
var imageSrcAttrs = []string{"src", "data-src", "data-lazy"}

// Extract turns a parsed document into a Record. It never fails on
// malformed-but-parseable input: a missing element yields an empty or
// sentinel field, not an error. baseURL is the final resolved URL of the
// fetch and anchors relative image/link resolution.
func Extract(doc *goquery.Document, baseURL string, httpStatus int, contentType string) Record {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	rec := Record{
		SourceURL:   baseURL,
		FetchedAt:   time.Now().UTC(),
		HTTPStatus:  httpStatus,
		ContentType: contentType,
	}
	if rec.ContentType == "" {
		rec.ContentType = UnknownContentType
	}
	if base != nil {
		rec.Domain = base.Host
	}

	rec.Title = extractTitle(doc)
	rec.Description = extractDescription(doc)
	rec.MetaTags = extractMetaTags(doc)
	rec.Images = extractImages(doc, base)
	rec.Links = extractLinks(doc, base)
	rec.Headings = extractHeadings(doc)
	rec.Paragraphs = extractParagraphs(doc)
	rec.BodyTextPreview = extractPreview(doc)
	return rec
}

func extractTitle(doc *goquery.Document) string {
	if t := cleanText(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return NoTitle
}

func extractDescription(doc *goquery.Document) string {
	if d := cleanText(doc.Find(`meta[name="description"]`).AttrOr("content", "")); d != "" {
		return d
	}
	if d := cleanText(doc.Find(`meta[property="og:description"]`).AttrOr("content", "")); d != "" {
		return d
	}
	return NoDescription
}

// extractMetaTags records name-or-property -> content for every meta element
// carrying both a non-empty key attribute and a content attribute. Map
// assignment in document order makes later duplicates win.
func extractMetaTags(doc *goquery.Document) map[string]string {
	tags := make(map[string]string)
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key := s.AttrOr("name", "")
		if key == "" {
			key = s.AttrOr("property", "")
		}
		content, ok := s.Attr("content")
		if key == "" || !ok {
			return
		}
		tags[key] = content
	})
	return tags
}

func extractImages(doc *goquery.Document, base *url.URL) []Image {
	var images []Image
	seen := make(map[string]struct{})
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var src string
		for _, attr := range imageSrcAttrs {
			if v := strings.TrimSpace(s.AttrOr(attr, "")); v != "" {
				src = v
				break
			}
		}
		if src == "" {
			return true
		}
		resolved, ok := resolveRef(base, src)
		if !ok {
			return true
		}
		alt := cleanText(s.AttrOr("alt", ""))
		if isNoiseImage(resolved, alt) {
			return true
		}
		if _, dup := seen[resolved]; dup {
			return true
		}
		seen[resolved] = struct{}{}
		images = append(images, Image{Src: resolved, Alt: alt})
		return len(images) < maxImages
	})
	return images
}

// isNoiseImage filters decorative and tracking noise: icons and logos by
// source or alt text, favicons and tracking pixels by source.
func isNoiseImage(src, alt string) bool {
	ls, la := strings.ToLower(src), strings.ToLower(alt)
	if strings.Contains(ls, "icon") || strings.Contains(ls, "logo") {
		return true
	}
	if strings.Contains(la, "icon") || strings.Contains(la, "logo") {
		return true
	}
	return strings.Contains(ls, "favicon") || strings.Contains(ls, "pixel")
}

func extractLinks(doc *goquery.Document, base *url.URL) []Link {
	var links []Link
	seen := make(map[string]struct{})
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		text := cleanText(s.Text())
		if href == "" || text == "" {
			return true
		}
		// Boilerplate heuristic: very short anchors are navigation chrome,
		// very long ones are usually wrapped blocks.
		if n := utf8.RuneCountInString(text); n <= 3 || n >= 100 {
			return true
		}
		resolved := href
		if !strings.HasPrefix(href, "mailto") && !strings.HasPrefix(href, "tel") {
			var ok bool
			resolved, ok = resolveRef(base, href)
			if !ok {
				return true
			}
		}
		if _, dup := seen[resolved]; dup {
			return true
		}
		seen[resolved] = struct{}{}
		links = append(links, Link{Href: resolved, Text: text})
		return len(links) < maxLinks
	})
	return links
}

func extractHeadings(doc *goquery.Document) []Heading {
	var headings []Heading
	doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := cleanText(s.Text())
		if utf8.RuneCountInString(text) <= 2 {
			return true
		}
		headings = append(headings, Heading{Level: goquery.NodeName(s), Text: text})
		return len(headings) < maxHeadings
	})
	return headings
}

func extractParagraphs(doc *goquery.Document) []string {
	var paragraphs []string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := cleanText(s.Text())
		if n := utf8.RuneCountInString(text); n > 20 && n < 500 {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < maxParagraphs
	})
	return paragraphs
}

// extractPreview returns the cleaned full-document text capped at
// maxPreviewChars. Script and style contents are stripped on a clone so the
// caller's document is left untouched. No ellipsis is added here; marking
// truncation is a presentation concern.
func extractPreview(doc *goquery.Document) string {
	clone := doc.Selection.Clone()
	clone.Find("script, style, noscript").Remove()
	text := cleanText(clone.Text())
	if runes := []rune(text); len(runes) > maxPreviewChars {
		return string(runes[:maxPreviewChars])
	}
	return text
}

// resolveRef resolves ref against base using standard URL resolution.
// References that fail to parse report ok=false and are skipped silently by
// callers rather than failing the whole extraction.
func resolveRef(base *url.URL, ref string) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	return u.String(), true
}
