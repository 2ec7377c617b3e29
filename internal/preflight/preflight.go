package preflight

import (
	"context"
	"fmt"

	"videogrid/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config in display order.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := CheckSystemDeps(ctx, cfg)
	results = append(results, CheckDirectoryAccess("Output directory", cfg.OutputDir()))
	for i, clip := range cfg.Clips {
		results = append(results, CheckFileReadable(fmt.Sprintf("Clip %d (%s)", i+1, clip.Label), clip.Source))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
