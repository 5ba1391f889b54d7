package mock

import "github.com/fwojciec/sitetext"

var _ sitetext.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sitetext.Extractor.
type Extractor struct {
	ExtractFn func(html string) *sitetext.ExtractResult
}

func (e *Extractor) Extract(html string) *sitetext.ExtractResult {
	return e.ExtractFn(html)
}
