package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/gt-events/internal/pipeline"
)

// OutputFormat selects how the run summary is printed.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// printSummary writes the run summary to w in the chosen format.
func printSummary(w io.Writer, summary *pipeline.Summary, format OutputFormat) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	mode := "persisted"
	if summary.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(w, "Run complete (%s): %d processed, %d skipped\n", mode, summary.Processed, summary.Skipped)
	if !summary.DryRun {
		fmt.Fprintf(w, "  inserted: %d, replaced: %d\n", summary.Inserted, summary.Replaced)
	}
	if len(summary.Failures) > 0 {
		fmt.Fprintf(w, "  %d event(s) failed to reconcile:\n", len(summary.Failures))
		for _, f := range summary.Failures {
			fmt.Fprintf(w, "    %s (%s): %s\n", f.EventName, shortSHA(f.EventSHA), f.Error)
		}
	}
	return nil
}

// shortSHA truncates a fingerprint for display.
func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
