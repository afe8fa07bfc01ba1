package combiner

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderReport writes a summary of res: one row per source, followed by the
// consolidation counters.
func RenderReport(w io.Writer, res Result) {
	sources := table.NewWriter()
	sources.SetOutputMirror(w)
	sources.SetStyle(table.StyleLight)
	sources.SetTitle("Sources")
	sources.AppendHeader(table.Row{"Path", "Status", "Rows", "Kept", "Malformed"})
	for _, s := range res.Sources {
		sources.AppendRow(table.Row{s.Path, s.Status, s.Rows, s.Kept, s.Malformed})
	}
	sources.Render()

	cons := res.Consolidation
	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetStyle(table.StyleLight)
	summary.SetTitle("Consolidation")
	summary.AppendHeader(table.Row{"Step", "Count"})
	summary.AppendRows([]table.Row{
		{"input entries", cons.Input},
		{"mixed-script targets", cons.Mixed},
		{"cache hits", cons.CacheHits},
		{"sent for cleaning", cons.Queued},
		{"cleaned", cons.Cleaned},
		{"batches failed", cons.BatchesFailed},
		{"batches discarded", cons.BatchesDiscarded},
		{"batches skipped", cons.BatchesSkipped},
		{"plural variants", cons.PluralVariants},
		{"stripped variants", cons.StrippedVariants},
		{"duplicates removed", cons.Duplicates},
	})
	summary.AppendFooter(table.Row{"written", res.Written})
	summary.Render()
}
