// Package network provides the HTTP clients shared by every upstream call.
package network

import (
	"net/http"
	"time"
)

// NewClient returns a client tuned for many short concurrent requests to a few hosts.
// With fingerprint set, https requests go out with a Chrome TLS ClientHello.
// Per-attempt deadlines are applied by the caller through the request context.
func NewClient(fingerprint bool) *http.Client {
	var rt http.RoundTripper = newTransport()
	if fingerprint {
		rt = newChromeTransport(newTransport())
	}

	return &http.Client{
		Transport: rt,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

const maxRedirects = 5

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}
