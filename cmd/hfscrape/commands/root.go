package commands

import (
	"context"
	"fmt"
	"hfscrape/internal/components/telemetry"
	"hfscrape/internal/dataset"
	"hfscrape/internal/fetcher"
	"hfscrape/internal/pipeline"
	"hfscrape/internal/store"
	"hfscrape/lib/serviceutil"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hfscrape",
	Short: "hfscrape extracts dataset details from the dataset pages listed in link files.",
	Long: `hfscrape reads every link file, fetches each dataset page, and writes a raw
and a whitespace-normalized json snapshot per batch.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, cleanup, err := setup(ctx, "hfscrape")
		if err != nil {
			return err
		}
		defer cleanup()

		summaries, err := run(ctx, cfg)
		if len(summaries) > 0 {
			renderSummaries(cmd.OutOrStdout(), summaries)
		}
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The configuration file to read.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		serviceutil.Fatal("hfscrape failed", err)
	}
}

// setup loads the config and brings up logging and otel.
func setup(ctx context.Context, serviceName string) (Config, func(), error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("read config: %w", err)
	}
	telemetry.InitSlog(cfg.Verbose)

	otel, err := telemetry.SetupOtel(ctx, serviceName, cfg.Telemetry)
	if err != nil {
		return cfg, nil, fmt.Errorf("setup telemetry: %w", err)
	}

	perfCtx, stopPerf := context.WithCancel(ctx)
	if otel.MeterProvider != nil {
		telemetry.InstrumentPerfStats(perfCtx, time.Second*30, telemetry.SlogAPI{})
	}

	cleanup := func() {
		stopPerf()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := otel.Shutdown(shutdownCtx)
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	}
	return cfg, cleanup, nil
}

func run(ctx context.Context, cfg Config) ([]pipeline.Summary, error) {
	tel := telemetry.SlogAPI{}

	batches, err := cfg.Source().Load()
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{
		Dirs:   cfg.Dirs(),
		Record: dataset.Options{IncludeFullName: cfg.IncludeFullName},
	}
	if cfg.SqlitePath != "" {
		db, err := store.Open(ctx, cfg.SqlitePath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		opts.Sink = db
	}

	client, err := fetcher.NewClient(cfg.FetchOptions(), tel)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(client, opts, tel)
	return p.Run(ctx, batches)
}
