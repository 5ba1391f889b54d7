package main

import (
	"fmt"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	body, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		return err
	}
	fmt.Fprint(deps.Stdout, body)
	return nil
}
