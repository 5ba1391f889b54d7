// Package xml provides a streaming reader for sitemap <loc> values.
package xml

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/fwojciec/sitetext"
	"golang.org/x/net/html/charset"
)

// ParseLocations scans an XML document once, front to back, and returns the
// text of every <loc> element in document order. Both urlset and
// sitemapindex documents are handled the same way; all other elements are
// ignored. Entities are unescaped and surrounding whitespace is trimmed.
//
// Malformed XML returns an EPARSE error.
func ParseLocations(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var locs []string
	var inLoc bool
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, sitetext.Errorf(sitetext.EPARSE, "parsing sitemap XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "loc" {
				inLoc = true
			}
		case xml.EndElement:
			if t.Name.Local == "loc" {
				inLoc = false
			}
		case xml.CharData:
			if !inLoc {
				continue
			}
			if loc := strings.TrimSpace(string(t)); loc != "" {
				locs = append(locs, loc)
			}
		}
	}
	return locs, nil
}

// ParseLocationsString is like ParseLocations for an in-memory document.
func ParseLocationsString(s string) ([]string, error) {
	return ParseLocations(strings.NewReader(s))
}
