package mock

import (
	"context"
	"net/url"

	"github.com/fwojciec/sitetext"
)

var _ sitetext.SitemapResolver = (*SitemapResolver)(nil)

// SitemapResolver is a mock implementation of sitetext.SitemapResolver.
type SitemapResolver struct {
	ResolveFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (r *SitemapResolver) Resolve(ctx context.Context, baseURL string) ([]string, error) {
	return r.ResolveFn(ctx, baseURL)
}

var _ sitetext.CandidateFinder = (*CandidateFinder)(nil)

// CandidateFinder is a mock implementation of sitetext.CandidateFinder.
type CandidateFinder struct {
	FindCandidatesFn func(ctx context.Context, base *url.URL) []string
}

func (f *CandidateFinder) FindCandidates(ctx context.Context, base *url.URL) []string {
	return f.FindCandidatesFn(ctx, base)
}
