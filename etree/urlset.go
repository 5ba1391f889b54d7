// Package etree writes resolved locations as sitemap XML using etree.
package etree

import (
	"io"

	"github.com/beevik/etree"
	"github.com/fwojciec/sitetext"
)

// SitemapNamespace is the sitemaps.org protocol namespace.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// NewURLSet builds a <urlset> document with one <url><loc> entry per
// location, in order.
func NewURLSet(locs []string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", SitemapNamespace)
	for _, loc := range locs {
		urlset.CreateElement("url").CreateElement("loc").SetText(loc)
	}

	doc.Indent(2)
	return doc
}

// WriteURLSet writes locs to w as an indented <urlset> document.
func WriteURLSet(w io.Writer, locs []string) error {
	if _, err := NewURLSet(locs).WriteTo(w); err != nil {
		return sitetext.Errorf(sitetext.EINTERNAL, "writing urlset: %v", err)
	}
	return nil
}
