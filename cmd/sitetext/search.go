package main

import (
	"fmt"

	"github.com/fwojciec/sitetext"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	vectors, err := deps.Embedder.Embed(deps.Ctx, []string{c.Query})
	if err != nil {
		return err
	}
	if len(vectors) != 1 {
		return sitetext.Errorf(sitetext.EINTERNAL, "embedder returned %d vectors for 1 query", len(vectors))
	}

	matches, err := deps.Store.Search(deps.Ctx, c.Collection, vectors[0], c.Limit)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Fprintln(deps.Stdout, "No matches found.")
		return nil
	}

	for _, m := range matches {
		fmt.Fprintf(deps.Stdout, "%.4f  %s\n", m.Score, m.URL)
	}
	return nil
}
