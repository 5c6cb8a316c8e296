package commands

import (
	"fmt"
	"hfscrape/internal/components/telemetry"
	"hfscrape/internal/dataset"
	"hfscrape/internal/extract"
	"hfscrape/internal/fetcher"
	"hfscrape/internal/output"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

type extractResult struct {
	Raw   dataset.Record `json:"raw"`
	Clean dataset.Record `json:"clean"`
}

var extractCmd = &cobra.Command{
	Use:   "extract <url> [url...]",
	Short: "Fetches the given dataset pages and prints their raw and clean records without writing any file.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, cleanup, err := setup(ctx, "hfscrape-extract")
		if err != nil {
			return err
		}
		defer cleanup()

		tel := telemetry.SlogAPI{}
		client, err := fetcher.NewClient(cfg.FetchOptions(), tel)
		if err != nil {
			return err
		}
		opts := dataset.Options{IncludeFullName: cfg.IncludeFullName}

		var results []extractResult
		for _, entry := range dataset.Entries(args) {
			var raw dataset.Record
			markup, err := client.Fetch(ctx, entry.Link)
			if err != nil {
				tel.ReportWarning("extract.fetch", entry.Link, err)
				raw = dataset.ErrorRecord(entry, opts)
			} else {
				raw = extract.Record(ctx, entry, markup, opts)
			}
			results = append(results, extractResult{Raw: raw, Clean: dataset.Normalize(raw)})
		}

		out, err := output.Marshal(results)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}
