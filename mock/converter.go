package mock

import "github.com/fwojciec/sitetext"

var _ sitetext.Converter = (*Converter)(nil)

// Converter is a mock implementation of sitetext.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
