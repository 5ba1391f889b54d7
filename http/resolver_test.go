package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/sitetext"
	sitehttp "github.com/fwojciec/sitetext/http"
	"github.com/fwojciec/sitetext/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapResolver_Resolve_FromSitemapXML(t *testing.T) {
	t.Parallel()

	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/page1</loc></url>
  <url><loc>{{BASE}}/page2</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	resolver := sitehttp.NewSitemapResolver(sitehttp.NewFetcher())
	locs, err := resolver.Resolve(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/page1", srv.URL + "/page2"}, locs)
}

func TestSitemapResolver_Resolve_FromRobotsTxt(t *testing.T) {
	t.Parallel()

	// /sitemap.xml is missing; robots.txt points elsewhere.
	robotsTxt := `User-agent: *
Disallow: /private/
Sitemap: {{BASE}}/custom-sitemap.xml
`
	customXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/a</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/robots.txt":         robotsTxt,
		"/custom-sitemap.xml": customXML,
	})
	defer srv.Close()

	resolver := sitehttp.NewSitemapResolver(sitehttp.NewFetcher())
	locs, err := resolver.Resolve(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/a"}, locs)
}

func TestSitemapResolver_Resolve_SitemapIndex(t *testing.T) {
	t.Parallel()

	sitemapIndex := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-docs.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-api.xml</loc></sitemap>
</sitemapindex>`

	sitemapDocs := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/docs/intro</loc></url>
  <url><loc>{{BASE}}/docs/guide</loc></url>
</urlset>`

	sitemapAPI := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/api/reference</loc></url>
</urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml":      sitemapIndex,
		"/sitemap-docs.xml": sitemapDocs,
		"/sitemap-api.xml":  sitemapAPI,
	})
	defer srv.Close()

	resolver := sitehttp.NewSitemapResolver(sitehttp.NewFetcher())
	locs, err := resolver.Resolve(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{
		srv.URL + "/docs/intro",
		srv.URL + "/docs/guide",
		srv.URL + "/api/reference",
	}, locs)
}

func TestSitemapResolver_Resolve_StopsAtMaxDepth(t *testing.T) {
	t.Parallel()

	sitemapIndex := `<sitemapindex>
  <sitemap><loc>{{BASE}}/sitemap-level1.xml</loc></sitemap>
</sitemapindex>`

	level1 := `<sitemapindex>
  <sitemap><loc>{{BASE}}/sitemap-level2.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/page</loc></sitemap>
</sitemapindex>`

	level2 := `<urlset><url><loc>{{BASE}}/deep</loc></url></urlset>`

	t.Run("keeps sitemap references below the default depth", func(t *testing.T) {
		t.Parallel()

		counter := &requestCounter{}
		srv := newCountingTestServer(t, counter, map[string]string{
			"/sitemap.xml":        sitemapIndex,
			"/sitemap-level1.xml": level1,
			"/sitemap-level2.xml": level2,
		})
		defer srv.Close()

		resolver := sitehttp.NewSitemapResolver(sitehttp.NewFetcher())
		locs, err := resolver.Resolve(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/sitemap-level2.xml", srv.URL + "/page"}, locs)
		assert.Equal(t, 0, counter.count("/sitemap-level2.xml"))
	})

	t.Run("follows deeper levels when configured", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml":        sitemapIndex,
			"/sitemap-level1.xml": level1,
			"/sitemap-level2.xml": level2,
		})
		defer srv.Close()

		resolver := sitehttp.NewSitemapResolver(sitehttp.NewFetcher(), sitehttp.WithMaxDepth(2))
		locs, err := resolver.Resolve(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/deep", srv.URL + "/page"}, locs)
	})

	t.Run("does not expand candidates' references at depth zero", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, map[string]string{
			"/sitemap.xml":        sitemapIndex,
			"/sitemap-level1.xml": level1,
		})
		defer srv.Close()

		resolver := sitehttp.NewSitemapResolver(sitehttp.NewFetcher(), sitehttp.WithMaxDepth(0))
		locs, err := resolver.Resolve(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/sitemap-level1.xml"}, locs)
	})
}

func TestSitemapResolver_Resolve_DeduplicatesInFirstSeenOrder(t *testing.T) {
	t.Parallel()

	// robots.txt repeats /sitemap.xml, and both sitemaps share a page.
	robotsTxt := `Sitemap: {{BASE}}/sitemap.xml
Sitemap: {{BASE}}/sitemap-extra.xml
`
	sitemapXML := `<urlset>
  <url><loc>{{BASE}}/b</loc></url>
  <url><loc>{{BASE}}/a</loc></url>
  <url><loc>{{BASE}}/b</loc></url>
</urlset>`
	extraXML := `<urlset>
  <url><loc>{{BASE}}/a</loc></url>
  <url><loc>{{BASE}}/c</loc></url>
</urlset>`

	counter := &requestCounter{}
	srv := newCountingTestServer(t, counter, map[string]string{
		"/robots.txt":        robotsTxt,
		"/sitemap.xml":       sitemapXML,
		"/sitemap-extra.xml": extraXML,
	})
	defer srv.Close()

	resolver := sitehttp.NewSitemapResolver(sitehttp.NewFetcher())
	locs, err := resolver.Resolve(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/b", srv.URL + "/a", srv.URL + "/c"}, locs)

	// Once while probing, once as a candidate.
	assert.Equal(t, 2, counter.count("/sitemap.xml"))
	assert.Equal(t, 1, counter.count("/sitemap-extra.xml"))
}

func TestSitemapResolver_Resolve_SkipsBrokenSitemaps(t *testing.T) {
	t.Parallel()

	robotsTxt := `Sitemap: {{BASE}}/sitemap-broken.xml
Sitemap: {{BASE}}/sitemap-missing.xml
Sitemap: {{BASE}}/sitemap-good.xml
`
	good := `<urlset><url><loc>{{BASE}}/ok</loc></url></urlset>`
	broken := `<urlset><url><loc>{{BASE}}/never</loc></url>`

	srv := newTestServer(t, map[string]string{
		"/robots.txt":         robotsTxt,
		"/sitemap-broken.xml": broken,
		"/sitemap-good.xml":   good,
	})
	defer srv.Close()

	resolver := sitehttp.NewSitemapResolver(sitehttp.NewFetcher())
	locs, err := resolver.Resolve(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/ok"}, locs)
}

func TestSitemapResolver_Resolve_SkipsBrokenNestedSitemaps(t *testing.T) {
	t.Parallel()

	sitemapIndex := `<sitemapindex>
  <sitemap><loc>{{BASE}}/sitemap-gone.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-pages.xml</loc></sitemap>
</sitemapindex>`
	pages := `<urlset><url><loc>{{BASE}}/p</loc></url></urlset>`

	srv := newTestServer(t, map[string]string{
		"/sitemap.xml":       sitemapIndex,
		"/sitemap-pages.xml": pages,
	})
	defer srv.Close()

	resolver := sitehttp.NewSitemapResolver(sitehttp.NewFetcher())
	locs, err := resolver.Resolve(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/p"}, locs)
}

func TestSitemapResolver_Resolve_NoSitemaps(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{})
	defer srv.Close()

	resolver := sitehttp.NewSitemapResolver(sitehttp.NewFetcher())
	locs, err := resolver.Resolve(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.NotNil(t, locs)
	assert.Empty(t, locs)
}

func TestSitemapResolver_Resolve_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	for _, baseURL := range []string{"", "not a url", "ftp://example.com", "http://"} {
		t.Run(baseURL, func(t *testing.T) {
			t.Parallel()

			fetcher := &mock.Fetcher{
				FetchFn: func(_ context.Context, u string) (string, error) {
					t.Errorf("unexpected fetch of %s", u)
					return "", nil
				},
			}

			resolver := sitehttp.NewSitemapResolver(fetcher)
			_, err := resolver.Resolve(context.Background(), baseURL)

			require.Error(t, err)
			assert.Equal(t, sitetext.EINVALID, sitetext.ErrorCode(err))
		})
	}
}

func TestSitemapResolver_Resolve_CanceledContext(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, _ string) (string, error) {
			return "", ctx.Err()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := sitehttp.NewSitemapResolver(fetcher)
	_, err := resolver.Resolve(ctx, "https://example.com")

	require.ErrorIs(t, err, context.Canceled)
}

func TestSitemapResolver_Resolve_ConcurrencyDoesNotChangeResult(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"https://example.com/sitemap.xml": `<sitemapindex>
  <sitemap><loc>https://example.com/sitemap-1.xml</loc></sitemap>
  <sitemap><loc>https://example.com/sitemap-2.xml</loc></sitemap>
  <sitemap><loc>https://example.com/sitemap-3.xml</loc></sitemap>
</sitemapindex>`,
		"https://example.com/sitemap-1.xml": `<urlset><url><loc>https://example.com/x</loc></url><url><loc>https://example.com/y</loc></url></urlset>`,
		"https://example.com/sitemap-2.xml": `<urlset><url><loc>https://example.com/y</loc></url><url><loc>https://example.com/z</loc></url></urlset>`,
		"https://example.com/sitemap-3.xml": `<urlset><url><loc>https://example.com/w</loc></url><url><loc>https://example.com/x</loc></url></urlset>`,
	}

	newFetcher := func() *mock.Fetcher {
		return &mock.Fetcher{
			FetchFn: func(_ context.Context, u string) (string, error) {
				body, ok := docs[u]
				if !ok {
					return "", &sitetext.StatusError{URL: u, StatusCode: http.StatusNotFound}
				}
				return body, nil
			},
		}
	}

	want := []string{
		"https://example.com/x",
		"https://example.com/y",
		"https://example.com/z",
		"https://example.com/w",
	}

	for _, n := range []int{1, 2, 8} {
		resolver := sitehttp.NewSitemapResolver(newFetcher(), sitehttp.WithConcurrency(n))
		locs, err := resolver.Resolve(context.Background(), "https://example.com")
		require.NoError(t, err)
		assert.Equal(t, want, locs, "concurrency %d", n)
	}
}

func TestSitemapResolver_Resolve_UsesCandidateFinder(t *testing.T) {
	t.Parallel()

	var gotBase string
	finder := &mock.CandidateFinder{
		FindCandidatesFn: func(_ context.Context, base *url.URL) []string {
			gotBase = base.String()
			return []string{"https://example.com/feed.xml"}
		},
	}
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, u string) (string, error) {
			assert.Equal(t, "https://example.com/feed.xml", u)
			return `<urlset><url><loc>https://example.com/post</loc></url></urlset>`, nil
		},
	}

	resolver := sitehttp.NewSitemapResolver(fetcher, sitehttp.WithCandidateFinder(finder))
	locs, err := resolver.Resolve(context.Background(), "  https://example.com  ")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com", gotBase)
	assert.Equal(t, []string{"https://example.com/post"}, locs)
}

// requestCounter records how many times each path was requested.
type requestCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *requestCounter) record(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[path]++
}

func (c *requestCounter) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[path]
}

func newTestServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()
	return newCountingTestServer(t, &requestCounter{}, content)
}

func newCountingTestServer(t *testing.T, counter *requestCounter, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.record(r.URL.Path)

		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		// Replace {{BASE}} with actual server URL
		body = strings.ReplaceAll(body, "{{BASE}}", srv.URL)

		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(body))
	}))

	return srv
}
