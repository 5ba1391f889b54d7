package sitetext

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

// MaxExpansionDepth is how many levels of nested sitemaps are followed
// below the discovered candidates. Locations found at the deepest level
// are kept as-is, even when they look like sitemaps.
const MaxExpansionDepth = 1

// SitemapResolver resolves the content URLs a site publishes.
type SitemapResolver interface {
	// Resolve discovers sitemap candidates for baseURL, reads every
	// candidate, expands nested sitemaps and returns the unique locations
	// in first-seen order. Failures on individual sitemaps are not fatal;
	// an invalid base URL is.
	//
	// Returns an empty slice (not nil) when nothing is found.
	Resolve(ctx context.Context, baseURL string) ([]string, error)
}

// CandidateFinder finds URLs that may reference sitemap documents.
type CandidateFinder interface {
	// FindCandidates probes well-known locations on the base host.
	// It never fails as a whole; failed probes are skipped.
	FindCandidates(ctx context.Context, base *url.URL) []string
}

// IsSitemapURL reports whether a location looks like a reference to
// another sitemap rather than a content page.
func IsSitemapURL(loc string) bool {
	return strings.Contains(loc, "sitemap") && strings.HasSuffix(loc, ".xml")
}

// ParseBaseURL validates an absolute http(s) URL identifying a site root.
func ParseBaseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, Errorf(EINVALID, "invalid base URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EINVALID, "invalid base URL %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "invalid base URL %q: host required", rawURL)
	}
	return u, nil
}

// LocationSet is an ordered set of locations. Membership is exact string
// equality; the first occurrence of a location keeps its position.
type LocationSet struct {
	seen map[string]struct{}
	locs []string
}

// NewLocationSet returns an empty LocationSet.
func NewLocationSet() *LocationSet {
	return &LocationSet{seen: make(map[string]struct{})}
}

// Add appends loc unless it is already present.
// Returns false if the location was already in the set.
func (s *LocationSet) Add(loc string) bool {
	if _, ok := s.seen[loc]; ok {
		return false
	}
	s.seen[loc] = struct{}{}
	s.locs = append(s.locs, loc)
	return true
}

// Contains reports whether loc is in the set.
func (s *LocationSet) Contains(loc string) bool {
	_, ok := s.seen[loc]
	return ok
}

// Len returns the number of locations in the set.
func (s *LocationSet) Len() int {
	return len(s.locs)
}

// Locations returns a copy of the locations in insertion order.
func (s *LocationSet) Locations() []string {
	out := make([]string, len(s.locs))
	copy(out, s.locs)
	return out
}

// MarshalLocations encodes locations as a pretty-printed JSON array.
// A nil slice encodes as an empty array.
func MarshalLocations(locs []string) ([]byte, error) {
	if locs == nil {
		locs = []string{}
	}
	b, err := json.MarshalIndent(locs, "", "  ")
	if err != nil {
		return nil, Errorf(EINTERNAL, "encoding locations: %v", err)
	}
	return b, nil
}
