package main

import (
	"encoding/json"
	"fmt"

	"github.com/specworks/refcrawl"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	report, err := deps.Reports.LoadReport(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", refcrawl.ErrorMessage(err))
		return err
	}

	if c.Shortname != "" {
		for _, spec := range report.Results {
			if spec.Shortname == c.Shortname || spec.URL == c.Shortname {
				data, err := json.MarshalIndent(spec, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(deps.Stdout, string(data))
				return nil
			}
		}
		return refcrawl.Errorf(refcrawl.ENOTFOUND, "spec %q not in the report", c.Shortname)
	}

	if len(report.Results) == 0 {
		fmt.Fprintln(deps.Stdout, "Report is empty. Run 'refcrawl crawl' first.")
		return nil
	}

	for _, spec := range report.Results {
		if c.Errors && spec.Error == "" {
			continue
		}
		line := spec.URL
		if spec.Title != "" {
			line += "  " + spec.Title
		}
		if spec.Error != "" {
			line += "  [error: " + spec.Error + "]"
		}
		fmt.Fprintln(deps.Stdout, line)
	}
	fmt.Fprintf(deps.Stdout, "\n%d crawled, %d errors (%s)\n",
		report.Stats.Crawled, report.Stats.Errors, report.Date)
	return nil
}
