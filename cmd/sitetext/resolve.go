package main

import (
	"fmt"

	"github.com/fwojciec/sitetext"
	"github.com/fwojciec/sitetext/etree"
)

// Run executes the resolve command.
//
// Locations from every base URL are merged into one list in first-seen order.
func (c *ResolveCmd) Run(deps *Dependencies) error {
	set := sitetext.NewLocationSet()
	for _, u := range c.URLs {
		if err := deps.Ctx.Err(); err != nil {
			return err
		}

		locs, err := deps.Resolver.Resolve(deps.Ctx, u)
		if err != nil {
			return err
		}
		for _, loc := range locs {
			set.Add(loc)
		}
	}

	if c.Format == "xml" {
		return etree.WriteURLSet(deps.Stdout, set.Locations())
	}

	b, err := sitetext.MarshalLocations(set.Locations())
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, string(b))
	return nil
}
