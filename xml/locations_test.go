package xml_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/sitetext"
	sitexml "github.com/fwojciec/sitetext/xml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocations(t *testing.T) {
	t.Parallel()

	t.Run("extracts locations from a urlset", func(t *testing.T) {
		t.Parallel()

		doc := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/docs/intro</loc><lastmod>2024-01-01</lastmod></url>
  <url><loc>https://example.com/docs/guide</loc></url>
</urlset>`

		locs, err := sitexml.ParseLocationsString(doc)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/docs/intro",
			"https://example.com/docs/guide",
		}, locs)
	})

	t.Run("extracts locations from a sitemap index", func(t *testing.T) {
		t.Parallel()

		doc := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>http://x/sitemap-sub1.xml</loc></sitemap>
  <sitemap><loc>http://x/sitemap-sub2.xml</loc></sitemap>
</sitemapindex>`

		locs, err := sitexml.ParseLocationsString(doc)

		require.NoError(t, err)
		assert.Equal(t, []string{"http://x/sitemap-sub1.xml", "http://x/sitemap-sub2.xml"}, locs)
	})

	t.Run("unescapes entities", func(t *testing.T) {
		t.Parallel()

		doc := `<urlset><url><loc>https://example.com/search?q=go&amp;page=2</loc></url></urlset>`

		locs, err := sitexml.ParseLocationsString(doc)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/search?q=go&page=2"}, locs)
	})

	t.Run("trims whitespace around pretty-printed values", func(t *testing.T) {
		t.Parallel()

		doc := "<urlset><url><loc>\n    https://example.com/a\n  </loc></url></urlset>"

		locs, err := sitexml.ParseLocationsString(doc)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a"}, locs)
	})

	t.Run("reads CDATA sections", func(t *testing.T) {
		t.Parallel()

		doc := `<urlset><url><loc><![CDATA[https://example.com/a?x=1&y=2]]></loc></url></urlset>`

		locs, err := sitexml.ParseLocationsString(doc)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a?x=1&y=2"}, locs)
	})

	t.Run("ignores text outside loc elements", func(t *testing.T) {
		t.Parallel()

		doc := `<urlset>
  <url><loc>https://example.com/a</loc><priority>0.8</priority><changefreq>daily</changefreq></url>
  <image:image xmlns:image="http://www.google.com/schemas/sitemap-image/1.1"><image:caption>caption</image:caption></image:image>
</urlset>`

		locs, err := sitexml.ParseLocationsString(doc)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a"}, locs)
	})

	t.Run("matches namespaced loc elements", func(t *testing.T) {
		t.Parallel()

		doc := `<urlset xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">
  <url><loc>https://example.com/page</loc>
    <image:image><image:loc>https://example.com/photo.jpg</image:loc></image:image>
  </url>
</urlset>`

		locs, err := sitexml.ParseLocationsString(doc)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/page", "https://example.com/photo.jpg"}, locs)
	})

	t.Run("returns nothing for a document without locations", func(t *testing.T) {
		t.Parallel()

		locs, err := sitexml.ParseLocationsString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"></urlset>`)

		require.NoError(t, err)
		assert.Empty(t, locs)
	})

	t.Run("returns nothing for empty input", func(t *testing.T) {
		t.Parallel()

		locs, err := sitexml.ParseLocations(strings.NewReader(""))

		require.NoError(t, err)
		assert.Empty(t, locs)
	})

	t.Run("decodes declared non-UTF-8 encodings", func(t *testing.T) {
		t.Parallel()

		// "café" in ISO-8859-1.
		doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><urlset><url><loc>https://example.com/caf\xe9</loc></url></urlset>"

		locs, err := sitexml.ParseLocationsString(doc)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/café"}, locs)
	})

	t.Run("returns parse error for malformed XML", func(t *testing.T) {
		t.Parallel()

		_, err := sitexml.ParseLocationsString(`<urlset><url><loc>https://example.com/a</url></urlset>`)

		require.Error(t, err)
		assert.Equal(t, sitetext.EPARSE, sitetext.ErrorCode(err))
	})

	t.Run("returns parse error for HTML error pages", func(t *testing.T) {
		t.Parallel()

		_, err := sitexml.ParseLocationsString(`<html><body><p>Not found<br></p></body></html>`)

		require.Error(t, err)
		assert.Equal(t, sitetext.EPARSE, sitetext.ErrorCode(err))
	})
}
