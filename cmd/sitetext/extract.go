package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/sitetext"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	switch {
	case c.File != "" && len(c.URLs) > 0:
		return sitetext.Errorf(sitetext.EINVALID, "--file cannot be combined with URLs")
	case c.File == "" && len(c.URLs) == 0:
		return sitetext.Errorf(sitetext.EINVALID, "a URL or --file is required")
	}

	extractor, ok := deps.Extractors[c.Extractor]
	if !ok {
		return sitetext.Errorf(sitetext.EINVALID, "unknown extractor %q", c.Extractor)
	}

	if c.File != "" {
		html, err := readHTML(c.File)
		if err != nil {
			return err
		}
		return c.render(deps, extractor, "", html)
	}

	for i, u := range c.URLs {
		if err := deps.Ctx.Err(); err != nil {
			return err
		}

		html, err := deps.Fetcher.Fetch(deps.Ctx, u)
		if err != nil {
			return err
		}

		if len(c.URLs) > 1 {
			if i > 0 {
				fmt.Fprintln(deps.Stdout)
			}
			fmt.Fprintf(deps.Stdout, "==> %s <==\n", u)
		}
		if err := c.render(deps, extractor, u, html); err != nil {
			return err
		}
	}
	return nil
}

// render writes the text, or Markdown, of a single page.
func (c *ExtractCmd) render(deps *Dependencies, extractor sitetext.Extractor, pageURL, html string) error {
	if c.Markdown {
		md, err := deps.NewConverter(pageURL).Convert(html)
		if err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, md)
		return nil
	}

	fmt.Fprintln(deps.Stdout, extractor.Extract(html).Text())
	return nil
}

func readHTML(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", sitetext.Errorf(sitetext.EINVALID, "reading %s: %v", path, err)
	}
	return string(b), nil
}
