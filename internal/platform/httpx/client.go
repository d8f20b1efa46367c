// Package httpx builds the HTTP clients used to talk to the DVR.
package httpx

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

const (
	defaultClientTimeout         = 30 * time.Second
	defaultDialTimeout           = 5 * time.Second
	defaultResponseHeaderTimeout = 20 * time.Second
	defaultIdleConnTimeout       = 30 * time.Second
	defaultExpectContinueTimeout = 1 * time.Second
	defaultMaxIdleConns          = 4
	defaultMaxIdleConnsPerHost   = 2
)

// Options tunes the transport.
type Options struct {
	// Timeout bounds a whole request, body included. Zero selects 30s.
	Timeout time.Duration
	// InsecureSkipVerify disables certificate checks. DVRs serve a
	// self-signed certificate.
	InsecureSkipVerify bool
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return defaultClientTimeout
	}
	return o.Timeout
}

// NewTransport returns a transport with dial and header timeouts capped
// below the request timeout.
func NewTransport(opts Options) *http.Transport {
	timeout := opts.timeout()

	dialTimeout := timeout
	if dialTimeout > defaultDialTimeout {
		dialTimeout = defaultDialTimeout
	}

	responseHeaderTimeout := timeout
	if responseHeaderTimeout > defaultResponseHeaderTimeout {
		responseHeaderTimeout = defaultResponseHeaderTimeout
	}

	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          defaultMaxIdleConns,
		MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   dialTimeout,
		ResponseHeaderTimeout: responseHeaderTimeout,
		ExpectContinueTimeout: defaultExpectContinueTimeout,
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: opts.InsecureSkipVerify, // #nosec G402 -- operator opt-in for self-signed DVR certs
		},
	}
}

// NewClient returns a client over rt, or over NewTransport(opts) when rt is nil.
func NewClient(opts Options, rt http.RoundTripper) *http.Client {
	if rt == nil {
		rt = NewTransport(opts)
	}
	return &http.Client{
		Timeout:   opts.timeout(),
		Transport: rt,
	}
}
