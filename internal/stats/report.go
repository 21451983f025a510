package stats

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"mendel/internal/model"
)

// FormatRunTable renders run records as a fixed-width table for the CLI.
func FormatRunTable(records []model.RunRecord) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tPROBLEM\tDIM\tPOP\tGENS\tEVALS\tREPAIR\tSTOP\tBEST\tCREATED")
	for _, r := range records {
		best := "-"
		if r.BestFeasible != nil {
			best = fmt.Sprintf("%.6g", *r.BestFeasible)
		}
		repair := "off"
		if r.RepairEnabled {
			repair = r.Repair
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			shortID(r.RunID), r.Problem, r.Dimension, r.PopulationSize,
			r.Generations, humanize.Comma(int64(r.Evaluations)),
			repair, r.StopReason, best, r.CreatedAtUTC)
	}
	w.Flush()
	return b.String()
}

// FormatRunSummary renders a one-run summary for the CLI.
func FormatRunSummary(record model.RunRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s on %s (dim %d, seed %d)\n", record.RunID, record.Problem, record.Dimension, record.Seed)
	fmt.Fprintf(&b, "  generations: %s\n", humanize.Comma(int64(record.Generations)))
	fmt.Fprintf(&b, "  evaluations: %s\n", humanize.Comma(int64(record.Evaluations)))
	fmt.Fprintf(&b, "  stop reason: %s\n", record.StopReason)
	if record.BestFeasible != nil {
		fmt.Fprintf(&b, "  best feasible: %.6g\n", *record.BestFeasible)
	} else {
		fmt.Fprintf(&b, "  best feasible: none\n")
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
