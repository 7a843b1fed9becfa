package extract

import "time"

// Sentinel values substituted when the page or transport does not supply a
// field.
const (
	NoTitle            = "No title found"
	NoDescription      = "No description available"
	UnknownContentType = "unknown"
)

// Caps applied to each collection after filtering, in document order.
const (
	maxImages       = 10
	maxLinks        = 20
	maxHeadings     = 15
	maxParagraphs   = 10
	maxPreviewChars = 1000
)

// Image is one page image with its source resolved to an absolute URL.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Link is one anchor with its href resolved to an absolute URL.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// Heading is one h1..h6 element; Level is the lowercase tag name.
type Heading struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Record is the normalized, structured output of one page extraction.
type Record struct {
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Domain          string            `json:"domain"`
	SourceURL       string            `json:"sourceUrl"`
	MetaTags        map[string]string `json:"metaTags"`
	Images          []Image           `json:"images"`
	Links           []Link            `json:"links"`
	Headings        []Heading         `json:"headings"`
	Paragraphs      []string          `json:"paragraphs"`
	BodyTextPreview string            `json:"bodyTextPreview"`
	FetchedAt       time.Time         `json:"fetchedAt"`
	HTTPStatus      int               `json:"httpStatus"`
	ContentType     string            `json:"contentType"`
}
