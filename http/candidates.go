package http

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/fwojciec/sitetext"
)

// ProbePaths are the well-known locations probed for sitemaps, in order.
var ProbePaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
	robotsPath,
}

const robotsPath = "/robots.txt"

// Ensure CandidateFinder implements sitetext.CandidateFinder.
var _ sitetext.CandidateFinder = (*CandidateFinder)(nil)

// CandidateFinder probes a host for sitemap candidates.
type CandidateFinder struct {
	fetcher sitetext.Fetcher
	logger  *slog.Logger
}

// NewCandidateFinder creates a CandidateFinder that probes through fetcher.
// If logger is nil, log output is discarded.
func NewCandidateFinder(fetcher sitetext.Fetcher, logger *slog.Logger) *CandidateFinder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CandidateFinder{fetcher: fetcher, logger: logger}
}

// FindCandidates requests every probe path on base. A reachable sitemap
// path is a candidate itself; a reachable robots.txt contributes the
// sitemaps it declares. Candidates are returned in probe order.
//
// Failed probes are logged and skipped. If ctx is canceled, the
// candidates found so far are returned.
func (f *CandidateFinder) FindCandidates(ctx context.Context, base *url.URL) []string {
	var candidates []string
	for _, path := range ProbePaths {
		if ctx.Err() != nil {
			break
		}

		probeURL := base.ResolveReference(&url.URL{Path: path}).String()
		body, err := f.fetcher.Fetch(ctx, probeURL)
		if err != nil {
			var statusErr *sitetext.StatusError
			if errors.As(err, &statusErr) {
				f.logger.Debug("sitemap probe skipped", "url", probeURL, "status", statusErr.StatusCode)
				continue
			}
			f.logger.Warn("sitemap probe failed", "url", probeURL, "err", err)
			continue
		}

		if path == robotsPath {
			candidates = append(candidates, sitetext.ParseRobots(body)...)
			continue
		}
		candidates = append(candidates, probeURL)
	}
	return candidates
}
