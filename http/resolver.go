package http

import (
	"context"
	"log/slog"

	"github.com/fwojciec/sitetext"
	sitexml "github.com/fwojciec/sitetext/xml"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of sitemaps fetched in parallel.
const DefaultConcurrency = 4

// Ensure SitemapResolver implements sitetext.SitemapResolver.
var _ sitetext.SitemapResolver = (*SitemapResolver)(nil)

// SitemapResolver resolves a site's content URLs from its sitemaps.
//
// Sitemaps are fetched level by level: first every candidate, then every
// nested sitemap they reference, down to the configured depth. Each URL is
// fetched at most once per call. Merging happens afterwards in discovery
// order, so the result does not depend on which fetch finishes first.
type SitemapResolver struct {
	fetcher     sitetext.Fetcher
	finder      sitetext.CandidateFinder
	logger      *slog.Logger
	concurrency int
	maxDepth    int
}

// ResolverOption configures a SitemapResolver.
type ResolverOption func(*SitemapResolver)

// WithCandidateFinder replaces the default CandidateFinder.
func WithCandidateFinder(finder sitetext.CandidateFinder) ResolverOption {
	return func(r *SitemapResolver) {
		r.finder = finder
	}
}

// WithLogger sets the logger used for skipped sitemaps.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *SitemapResolver) {
		r.logger = logger
	}
}

// WithConcurrency sets how many sitemaps are fetched in parallel.
// Values below 1 are treated as 1.
func WithConcurrency(n int) ResolverOption {
	return func(r *SitemapResolver) {
		r.concurrency = max(n, 1)
	}
}

// WithMaxDepth sets how many levels of nested sitemaps are expanded.
// Defaults to sitetext.MaxExpansionDepth.
func WithMaxDepth(depth int) ResolverOption {
	return func(r *SitemapResolver) {
		r.maxDepth = max(depth, 0)
	}
}

// NewSitemapResolver creates a SitemapResolver that fetches through fetcher.
func NewSitemapResolver(fetcher sitetext.Fetcher, opts ...ResolverOption) *SitemapResolver {
	r := &SitemapResolver{
		fetcher:     fetcher,
		concurrency: DefaultConcurrency,
		maxDepth:    sitetext.MaxExpansionDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	if r.finder == nil {
		r.finder = NewCandidateFinder(fetcher, r.logger)
	}
	return r
}

// Resolve returns the unique locations published by the site at baseURL.
// Returns an empty slice (not nil) if no sitemaps are found.
func (r *SitemapResolver) Resolve(ctx context.Context, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := sitetext.ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	candidates := r.finder.FindCandidates(ctx, base)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make(map[string][]string)
	attempted := make(map[string]bool)
	r.fetchLevel(ctx, candidates, 0, docs, attempted)

	level := candidates
	for depth := 1; depth <= r.maxDepth; depth++ {
		var nested []string
		for _, u := range level {
			for _, loc := range docs[u] {
				if sitetext.IsSitemapURL(loc) {
					nested = append(nested, loc)
				}
			}
		}
		if len(nested) == 0 {
			break
		}
		r.fetchLevel(ctx, nested, depth, docs, attempted)
		level = nested
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set := sitetext.NewLocationSet()
	for _, candidate := range candidates {
		r.merge(set, docs[candidate], 0, docs)
	}
	return set.Locations(), nil
}

// merge adds locs to set in order. Above the depth limit, sitemap-looking
// locations are replaced by the contents of the referenced sitemap; a
// sitemap that could not be read contributes nothing.
func (r *SitemapResolver) merge(set *sitetext.LocationSet, locs []string, depth int, docs map[string][]string) {
	for _, loc := range locs {
		if depth < r.maxDepth && sitetext.IsSitemapURL(loc) {
			r.merge(set, docs[loc], depth+1, docs)
			continue
		}
		set.Add(loc)
	}
}

// fetchLevel fetches and parses every URL not attempted before, storing
// the locations of each successfully parsed sitemap in docs.
func (r *SitemapResolver) fetchLevel(ctx context.Context, urls []string, depth int, docs map[string][]string, attempted map[string]bool) {
	var pending []string
	for _, u := range urls {
		if attempted[u] {
			continue
		}
		attempted[u] = true
		pending = append(pending, u)
	}

	results := make([][]string, len(pending))
	ok := make([]bool, len(pending))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, u := range pending {
		g.Go(func() error {
			locs, err := r.fetchLocations(ctx, u)
			if err != nil {
				if depth == 0 {
					r.logger.Warn("sitemap skipped", "url", u, "err", err)
				} else {
					r.logger.Debug("nested sitemap skipped", "url", u, "depth", depth, "err", err)
				}
				return nil
			}
			results[i] = locs
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	for i, u := range pending {
		if ok[i] {
			docs[u] = results[i]
		}
	}
}

// fetchLocations fetches a sitemap and returns its <loc> values.
func (r *SitemapResolver) fetchLocations(ctx context.Context, sitemapURL string) ([]string, error) {
	body, err := r.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	return sitexml.ParseLocationsString(body)
}
