package extract

import (
	"bytes"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// ParseHTML decodes raw page bytes to UTF-8 using the declared or sniffed
// charset and builds a queryable document from the result.
func ParseHTML(data []byte, contentType string) (*goquery.Document, error) {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue with the raw bytes
		if !utf8.Valid(data) {
			return nil, err
		}
		decoded = data
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(decoded))
}
