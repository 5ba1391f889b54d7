package main

import (
	"fmt"

	"github.com/fwojciec/sitetext/index"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	urls, err := deps.Resolver.Resolve(deps.Ctx, c.URL)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Found %d URLs\n", len(urls))

	deps.Indexer.Collection = c.Collection
	if c.Concurrency > 0 {
		deps.Indexer.Concurrency = c.Concurrency
	}
	if c.BatchSize > 0 {
		deps.Indexer.BatchSize = c.BatchSize
	}

	progress := func(event index.ProgressEvent) {
		if event.Type == index.ProgressFailed {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", index.TruncateURL(event.URL, 80), event.Error)
		}
	}

	result, err := deps.Indexer.Index(deps.Ctx, urls, progress)
	if result != nil {
		fmt.Fprintf(deps.Stdout, "Indexed %d pages (%s, %s), %d unchanged, %d failed\n",
			result.Indexed, index.FormatBytes(result.Bytes), index.FormatTokens(result.Tokens),
			result.Skipped, result.Failed)
	}
	return err
}
