package main

import (
	"fmt"

	"github.com/specworks/refcrawl"
	"github.com/specworks/refcrawl/merge"
)

// Run executes the merge command.
func (c *MergeCmd) Run(deps *Dependencies) error {
	report, err := deps.Reports.LoadReport(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", refcrawl.ErrorMessage(err))
		return err
	}

	extracts := refcrawl.SeriesExtracts(report.Results)
	if len(extracts) == 0 {
		return fmt.Errorf("no CSS extracts in the report: run 'refcrawl crawl' first")
	}

	dataset, err := merge.Consolidate(extracts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error consolidating: %s\n", refcrawl.ErrorMessage(err))
		return err
	}

	if err := deps.Reports.SaveDataset(deps.Ctx, dataset); err != nil {
		fmt.Fprintf(deps.Stderr, "error saving dataset: %s\n", refcrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Merged %d specs: %d properties, %d atrules, %d selectors, %d types, %d functions\n",
		len(extracts),
		len(dataset.Properties), len(dataset.Atrules), len(dataset.Selectors),
		len(dataset.Types), len(dataset.Functions))
	return nil
}
