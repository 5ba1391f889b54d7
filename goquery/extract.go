// Package goquery extracts page text from HTML documents using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitetext"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitetext.Extractor at compile time.
var _ sitetext.Extractor = (*Extractor)(nil)

// Extractor extracts the title and visible body text of a page.
//
// Script and style text is excluded by content: a body text node is
// dropped when its text exactly equals the text of some script or style
// element in the same body.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses htmlContent leniently and returns its title and body text.
func (e *Extractor) Extract(htmlContent string) *sitetext.ExtractResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return &sitetext.ExtractResult{}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	var fragments []string
	doc.Find("body").Each(func(_ int, body *goquery.Selection) {
		excluded := make(map[string]struct{})
		body.Find("script, style").Each(func(_ int, s *goquery.Selection) {
			excluded[s.Text()] = struct{}{}
		})

		for _, n := range body.Nodes {
			fragments = appendText(fragments, n, excluded)
		}
	})

	return &sitetext.ExtractResult{
		Title: title,
		Body:  strings.Join(fragments, " "),
	}
}

// ExtractText returns the collapsed title and body text of htmlContent.
func ExtractText(htmlContent string) string {
	return NewExtractor().Extract(htmlContent).Text()
}

// appendText walks the descendants of n in document order and appends the
// trimmed, non-empty text nodes not listed in excluded.
func appendText(fragments []string, n *html.Node, excluded map[string]struct{}) []string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if _, skip := excluded[c.Data]; skip {
				continue
			}
			if text := strings.TrimSpace(c.Data); text != "" {
				fragments = append(fragments, text)
			}
		case html.ElementNode:
			fragments = appendText(fragments, c, excluded)
		}
	}
	return fragments
}
