// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package device talks to the DVR's TiVoConnect HTTPS interface and keeps
// fetched documents in a cache.Store.
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/icholy/digest"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	xlog "github.com/ManuGH/tivoctl/internal/log"
	"github.com/ManuGH/tivoctl/internal/metrics"
	"github.com/ManuGH/tivoctl/internal/platform/httpx"
	"github.com/ManuGH/tivoctl/internal/telemetry"
)

// maxDocumentBytes bounds a single response body.
const maxDocumentBytes = 64 << 20

// ErrDocumentTooLarge is returned for bodies above 64 MiB.
var ErrDocumentTooLarge = errors.New("document exceeds 64 MiB")

// Options configures the device client.
type Options struct {
	Username           string
	Password           string
	Timeout            time.Duration
	InsecureSkipVerify bool
	RateLimit          float64 // requests per second, 0 disables limiting
	RateBurst          int
	UserAgent          string

	// Transport replaces the base transport; used by tests.
	Transport http.RoundTripper
}

// Client performs authenticated GETs against the device. It never retries.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    zerolog.Logger
}

// NewClient builds a client. HTTP digest authentication is enabled when a
// password is set; the device keeps a session cookie across requests.
func NewClient(opts Options, logger zerolog.Logger) (*Client, error) {
	base := opts.Transport
	if base == nil {
		base = httpx.NewTransport(httpx.Options{
			Timeout:            opts.Timeout,
			InsecureSkipVerify: opts.InsecureSkipVerify,
		})
	}
	// Each round trip, digest challenges included, gets its own span. The
	// device sees the trace context of the enclosing Get span.
	base = otelhttp.NewTransport(base,
		otelhttp.WithPropagators(propagation.NewCompositeTextMapPropagator()),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "tivo.device.roundtrip " + r.URL.Path
		}),
	)
	rt := base
	if opts.Password != "" {
		rt = &digest.Transport{
			Username:  opts.Username,
			Password:  opts.Password,
			Transport: base,
		}
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	hc := httpx.NewClient(httpx.Options{Timeout: opts.Timeout}, rt)
	hc.Jar = jar

	limit := rate.Inf
	burst := opts.RateBurst
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	if burst <= 0 {
		burst = 1
	}

	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = "tivoctl"
	}

	return &Client{
		http:      hc,
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: ua,
		logger:    logger,
	}, nil
}

// Get fetches rawURL and returns the body of a 200 response. operation
// labels logs, spans and metrics ("catalog" or "details"). Every failure is
// an *AcquisitionError.
func (c *Client) Get(ctx context.Context, rawURL, operation string) ([]byte, error) {
	urlLabel := redactURL(rawURL)
	ctx, span := telemetry.Tracer().Start(ctx, "tivo.device.get", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String(telemetry.DeviceOperationKey, operation))
	defer span.End()

	fail := func(status int, err error) ([]byte, error) {
		aerr := &AcquisitionError{Operation: operation, URL: urlLabel, Status: status, Err: err}
		span.RecordError(aerr)
		span.SetStatus(codes.Error, aerr.Error())
		return nil, aerr
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fail(0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/xml, application/xml")
	telemetry.InjectHeaders(ctx, req.Header)

	logger := xlog.WithContext(ctx, c.logger)
	start := time.Now()
	resp, err := c.http.Do(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	span.SetAttributes(telemetry.HTTPAttributes(http.MethodGet, urlLabel, status)...)
	if err != nil {
		metrics.RecordDeviceRequest(operation, 0, time.Since(start))
		logger.Warn().Err(err).
			Str(xlog.FieldOperation, operation).
			Str(xlog.FieldURL, urlLabel).
			Msg("device request failed")
		return fail(0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		metrics.RecordDeviceRequest(operation, resp.StatusCode, time.Since(start))
		logger.Warn().
			Str(xlog.FieldOperation, operation).
			Str(xlog.FieldURL, urlLabel).
			Int(xlog.FieldStatus, resp.StatusCode).
			Msg("device returned unexpected status")
		return fail(resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	elapsed := time.Since(start)
	metrics.RecordDeviceRequest(operation, resp.StatusCode, elapsed)
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	if len(body) > maxDocumentBytes {
		return fail(resp.StatusCode, ErrDocumentTooLarge)
	}

	span.SetAttributes(attribute.Int(telemetry.BytesKey, len(body)))
	span.SetStatus(codes.Ok, "")
	logger.Debug().
		Str(xlog.FieldOperation, operation).
		Str(xlog.FieldURL, urlLabel).
		Int(xlog.FieldStatus, resp.StatusCode).
		Int64(xlog.FieldDurationMS, elapsed.Milliseconds()).
		Int("bytes", len(body)).
		Msg("device document fetched")
	return body, nil
}

// redactURL masks any password embedded in rawURL.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Redacted()
}
