// Package readability extracts article text with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/sitetext"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitetext.Extractor at compile time.
var _ sitetext.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and plain text.
// Pages readability cannot parse yield an empty result.
func (e *Extractor) Extract(rawHTML string) *sitetext.ExtractResult {
	if strings.TrimSpace(rawHTML) == "" {
		return &sitetext.ExtractResult{}
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return &sitetext.ExtractResult{}
	}

	return &sitetext.ExtractResult{
		Title: strings.TrimSpace(article.Title),
		Body:  plainText(article.Content),
	}
}

// plainText flattens article HTML into space-separated text fragments.
func plainText(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}

	var fragments []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				fragments = append(fragments, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(fragments, " ")
}
