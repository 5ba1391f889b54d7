package sitetext

import "context"

// Fetcher retrieves the raw body of a URL.
type Fetcher interface {
	// Fetch issues a GET request and returns the response body.
	// A non-success status is reported as a *StatusError.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases idle connections.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
