package commands

import (
	"hfscrape/internal/pipeline"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func renderSummaries(out io.Writer, summaries []pipeline.Summary) {
	t := newTable(out)
	t.AppendHeader(table.Row{
		"Batch", "Records", "Fetch failures", "No description", "No size", "Raw", "Clean",
	})

	var total, failures int
	for _, s := range summaries {
		t.AppendRow(table.Row{
			s.Batch,
			s.Records,
			s.FetchFailures,
			s.MissingDescription,
			s.MissingSize,
			s.RawPath,
			s.CleanPath,
		})
		total += s.Records
		failures += s.FetchFailures
	}
	t.AppendFooter(table.Row{"Total", total, failures})
	t.Render()
}
