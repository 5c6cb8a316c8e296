// Package pipeline drives the fetch → extract → raw write → normalize →
// clean write sequence for every batch.
package pipeline

import (
	"context"
	"fmt"
	"hfscrape/internal/components/assert"
	"hfscrape/internal/components/telemetry"
	"hfscrape/internal/dataset"
	"hfscrape/internal/extract"
	"hfscrape/internal/fetcher"
	"hfscrape/internal/output"
	"hfscrape/internal/store"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_pipeline_fetch       = "pipeline.fetch"
	report_pipeline_write_raw   = "pipeline.write-raw"
	report_pipeline_write_clean = "pipeline.write-clean"
	report_pipeline_export      = "pipeline.export"
)

var (
	tracer = otel.Tracer("hfscrape.internal.pipeline")
	meter  = otel.Meter("hfscrape.internal.pipeline")
)

// Sink receives every written batch in addition to the json files.
type Sink interface {
	WriteBatch(ctx context.Context, name string, kind store.Kind, records []dataset.Record) error
}

type Options struct {
	Dirs   output.Dirs
	Record dataset.Options
	// Sink is optional.
	Sink Sink
}

type Pipeline struct {
	fetcher fetcher.Fetcher
	opts    Options
	tel     telemetry.API

	fetched  metric.Int64Counter
	failures metric.Int64Counter
}

func New(f fetcher.Fetcher, opts Options, tel telemetry.API) Pipeline {
	assert.NotNil(f)
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.Dirs.Raw)
	assert.NotEmptyStr(opts.Dirs.Clean)

	fetched, _ := meter.Int64Counter("pages_fetched")
	failures, _ := meter.Int64Counter("fetch_failures")

	return Pipeline{
		fetcher:  f,
		opts:     opts,
		tel:      telemetry.NewScopedAPI("pipeline", tel),
		fetched:  fetched,
		failures: failures,
	}
}

// Summary describes one written batch.
type Summary struct {
	Batch              string
	Records            int
	FetchFailures      int
	MissingDescription int
	MissingSize        int
	RawPath            string
	CleanPath          string
}

func progress(ctx context.Context, phase string, current, total int) {
	slog.InfoContext(ctx, fmt.Sprintf("%d out of %d", current, total), "phase", phase)
}

// Collect fetches and extracts every entry in order. A page that cannot be
// fetched becomes an error record and is marked in failed, only a done ctx
// stops the loop.
func (p Pipeline) Collect(ctx context.Context, entries []dataset.Entry) (records []dataset.Record, failed []bool, err error) {
	records = make([]dataset.Record, 0, len(entries))
	failed = make([]bool, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		progress(ctx, "fetch", entry.Id, len(entries))
		r, ok := p.collectOne(ctx, entry)
		records = append(records, r)
		failed = append(failed, !ok)
	}
	return records, failed, nil
}

func (p Pipeline) collectOne(ctx context.Context, entry dataset.Entry) (dataset.Record, bool) {
	markup, err := p.fetcher.Fetch(ctx, entry.Link)
	if err != nil {
		p.failures.Add(ctx, 1)
		p.tel.ReportWarning(report_pipeline_fetch, entry.Id, entry.Link, err)
		return dataset.ErrorRecord(entry, p.opts.Record), false
	}
	p.fetched.Add(ctx, 1)
	return extract.Record(ctx, entry, markup, p.opts.Record), true
}

// Clean normalizes every record, keeping order.
func (p Pipeline) Clean(ctx context.Context, raw []dataset.Record) []dataset.Record {
	clean := make([]dataset.Record, len(raw))
	for i, r := range raw {
		progress(ctx, "clean", i+1, len(raw))
		clean[i] = dataset.Normalize(r)
	}
	return clean
}

func (p Pipeline) export(ctx context.Context, name string, kind store.Kind, records []dataset.Record) error {
	if p.opts.Sink == nil {
		return nil
	}
	err := p.opts.Sink.WriteBatch(ctx, name, kind, records)
	if err != nil {
		p.tel.ReportBroken(report_pipeline_export, name, string(kind), err)
		return fmt.Errorf("export %s batch %s: %w", kind, name, err)
	}
	return nil
}

// RunBatch processes a single batch. Any error returned is fatal for the run.
func (p Pipeline) RunBatch(ctx context.Context, batch Batch) (Summary, error) {
	ctx, span := tracer.Start(ctx, "RunBatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("batch", batch.Name),
		attribute.Int("links", len(batch.Links)),
	)

	summary := Summary{
		Batch:     batch.Name,
		RawPath:   p.opts.Dirs.RawPath(batch.Name),
		CleanPath: p.opts.Dirs.CleanPath(batch.Name),
	}

	slog.InfoContext(ctx, "starting extraction of dataset details", "batch", batch.Name)
	raw, failed, err := p.Collect(ctx, dataset.Entries(batch.Links))
	if err != nil {
		span.SetStatus(codes.Error, "collect interrupted")
		return summary, err
	}

	slog.InfoContext(ctx, "saving raw data", "path", summary.RawPath)
	err = output.WriteJSON(summary.RawPath, raw)
	if err != nil {
		p.tel.ReportBroken(report_pipeline_write_raw, err)
		span.SetStatus(codes.Error, "write raw")
		return summary, err
	}
	err = p.export(ctx, batch.Name, store.KindRaw, raw)
	if err != nil {
		return summary, err
	}

	slog.InfoContext(ctx, "cleaning extracted data", "batch", batch.Name)
	clean := p.Clean(ctx, raw)

	slog.InfoContext(ctx, "saving cleaned data", "path", summary.CleanPath)
	err = output.WriteJSON(summary.CleanPath, clean)
	if err != nil {
		p.tel.ReportBroken(report_pipeline_write_clean, err)
		span.SetStatus(codes.Error, "write clean")
		return summary, err
	}
	err = p.export(ctx, batch.Name, store.KindClean, clean)
	if err != nil {
		return summary, err
	}

	summary.Records = len(clean)
	for i, r := range clean {
		if failed[i] {
			summary.FetchFailures++
			continue
		}
		if r.Description == dataset.NoDescription {
			summary.MissingDescription++
		}
		if r.Size == dataset.NoSize {
			summary.MissingSize++
		}
	}
	p.tel.ReportCount(fmt.Sprintf("%s.fetch-failures", batch.Name), int64(summary.FetchFailures))

	return summary, nil
}

// Run prepares the output directories, then runs every batch in order and
// stops at the first fatal error.
func (p Pipeline) Run(ctx context.Context, batches []Batch) ([]Summary, error) {
	err := p.opts.Dirs.Prepare()
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(batches))
	for _, batch := range batches {
		summary, err := p.RunBatch(ctx, batch)
		if err != nil {
			return summaries, fmt.Errorf("batch %s: %w", batch.Name, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
