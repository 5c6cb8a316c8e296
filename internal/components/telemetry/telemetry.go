package telemetry

import (
	"strings"
)

// API is where hfscrape components send failures, warnings and counts, it
// is backed by slog in the CLI and by a Recorder in tests.
//
// Report ids name the component and the operation that failed as
// `<component>.<operation>`, e.g. `fetcher.fetch` when a page could not be
// downloaded or `pipeline.write-raw` when a raw batch file could not be
// written. Ids stay at that granularity, details like the link or the path
// go into params.
type API interface {
	// ReportBroken reports a failure that ends the run, like an output file
	// that cannot be written.
	ReportBroken(id string, params ...any)
	// ReportWarning reports a failure the run survives, like a single
	// dataset page that could not be fetched.
	ReportWarning(id string, params ...any)
	// ReportDebug is only shown in verbose mode.
	ReportDebug(msg string, params ...any)
	// ReportCount reports a point-in-time count such as the fetch failures
	// of a batch (`<batch>.fetch-failures`).
	ReportCount(id string, count int64)
}

// ScopedAPI qualifies every id with the component it is handed to, so
// `resty.request` reported through the fetcher becomes
// `fetcher.resty.request`. Ids already qualified with the namespace are
// passed through unchanged.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) qualify(id string) string {
	if strings.HasPrefix(id, s.namespace+".") {
		return id
	}
	return s.namespace + "." + id
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.qualify(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.qualify(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.namespace+": "+msg, params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.qualify(id), count)
}
