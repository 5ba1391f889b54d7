// Package trafilatura extracts the main content of a page with go-trafilatura.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/sitetext"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitetext.Extractor at compile time.
var _ sitetext.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
// Navigation, footers and other boilerplate are dropped.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the title and main-content text.
// Pages trafilatura cannot handle yield an empty result.
func (e *Extractor) Extract(rawHTML string) *sitetext.ExtractResult {
	if strings.TrimSpace(rawHTML) == "" {
		return &sitetext.ExtractResult{}
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil || result == nil {
		return &sitetext.ExtractResult{}
	}

	var fragments []string
	if result.ContentNode != nil {
		fragments = appendText(fragments, result.ContentNode)
	}

	return &sitetext.ExtractResult{
		Title: strings.TrimSpace(result.Metadata.Title),
		Body:  strings.Join(fragments, " "),
	}
}

func appendText(fragments []string, n *html.Node) []string {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			fragments = append(fragments, text)
		}
		return fragments
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return fragments
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		fragments = appendText(fragments, c)
	}
	return fragments
}
