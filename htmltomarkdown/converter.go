// Package htmltomarkdown renders page HTML as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/sitetext"
)

// Ensure Converter implements sitetext.Converter at compile time.
var _ sitetext.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv    *converter.Converter
	baseURL string
}

// Option configures a Converter.
type Option func(*Converter)

// WithBaseURL resolves relative links and images against baseURL,
// normally the URL the page was fetched from.
func WithBaseURL(baseURL string) Option {
	return func(c *Converter) {
		c.baseURL = baseURL
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML content into Markdown.
// Script and style elements are dropped by the base plugin.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", sitetext.Errorf(sitetext.EINVALID, "empty HTML input")
	}

	var result string
	var err error
	if c.baseURL != "" {
		result, err = c.conv.ConvertString(html, converter.WithDomain(c.baseURL))
	} else {
		result, err = c.conv.ConvertString(html)
	}
	if err != nil {
		return "", sitetext.Errorf(sitetext.EPARSE, "converting HTML to Markdown: %v", err)
	}

	return result, nil
}
