package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitetext"
)

// Ensure LoggingSitemapResolver implements sitetext.SitemapResolver.
var _ sitetext.SitemapResolver = (*LoggingSitemapResolver)(nil)

// LoggingSitemapResolver wraps a SitemapResolver with logging.
type LoggingSitemapResolver struct {
	next   sitetext.SitemapResolver
	logger *slog.Logger
}

// NewLoggingSitemapResolver creates a new LoggingSitemapResolver.
func NewLoggingSitemapResolver(next sitetext.SitemapResolver, logger *slog.Logger) *LoggingSitemapResolver {
	return &LoggingSitemapResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the operation.
func (r *LoggingSitemapResolver) Resolve(ctx context.Context, baseURL string) (locs []string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("sitemap resolve",
			"url", baseURL,
			"count", len(locs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Resolve(ctx, baseURL)
}
