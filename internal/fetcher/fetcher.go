// Package fetcher performs the single GET request made for every dataset page.
package fetcher

import (
	"context"
	"fmt"
	"hfscrape/internal/components/assert"
	"hfscrape/internal/components/telemetry"
	"net/http"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_fetcher_fetch = "fetcher.fetch"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

var tracer = otel.Tracer("hfscrape.internal.fetcher")

// Fetcher returns the markup served at a url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchError is returned for any failure to get a usable page: transport
// errors, timeouts and statuses >= 400.
type FetchError struct {
	URL string
	// Status is 0 when no response was received.
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %s", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Options struct {
	// Timeout bounds every request, DefaultTimeout when zero.
	Timeout   time.Duration
	UserAgent string
	// CloudflareBypass wraps the transport so requests look like a browser's
	// to cloudflare's bot detection.
	CloudflareBypass bool
	// DumpDir, when set, receives a text file with the full exchange of
	// every response.
	DumpDir string
}

type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(opts Options, tel telemetry.API) (Client, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("fetcher", tel)

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	httpClient := resty.New()
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	if opts.CloudflareBypass {
		transport := httpClient.GetClient().Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		httpClient.SetTransport(cloudflarebp.AddCloudFlareByPass(transport))
	}

	telemetry.InstrumentResty(httpClient, tel)

	if opts.DumpDir != "" {
		d, err := newDumper(opts.DumpDir)
		if err != nil {
			return Client{}, fmt.Errorf("create dump directory: %w", err)
		}
		httpClient.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
			path, err := d.write(res)
			if err != nil {
				tel.ReportWarning(report_fetcher_dump, err)
				return nil
			}
			tel.ReportDebug(report_fetcher_dump, res.Request.URL, path)
			return nil
		})
	}

	return Client{http: httpClient, tel: tel}, nil
}

func (c Client) Fetch(ctx context.Context, url string) (string, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", &FetchError{URL: url, Err: err}
	}
	if res.IsError() {
		err := &FetchError{
			URL:    url,
			Status: res.StatusCode(),
			Err:    fmt.Errorf("unexpected status %s", res.Status()),
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		c.tel.ReportWarning(report_fetcher_fetch, err)
		return "", err
	}

	return res.String(), nil
}
